package adaptor

import (
	"net/http"

	"book-review/internal/dto/request"
	"book-review/internal/usecase"
	"book-review/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	responder
	service usecase.AuthService
	users   usecase.UserService
}

func NewAuthHandler(service usecase.AuthService, users usecase.UserService, production bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{log: log.With(zap.String("handler", "auth")), production: production},
		service:   service,
		users:     users,
	}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	if !h.validate(w, &req, utils.LocationBody) {
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "signup")
		return
	}

	utils.ResponseCreated(w, "User registered successfully", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	if !h.validate(w, &req, utils.LocationBody) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Me handles GET /api/auth/me (protected)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Not authorized to access this route")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), caller.ID)
	if err != nil {
		h.handleServiceError(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "", profile)
}
