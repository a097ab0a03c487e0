package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"book-review/pkg/utils"

	"go.uber.org/zap"
)

const apiVersion = "1.0.0"

type SystemHandler struct {
	app     utils.AppConfig
	started time.Time
	log     *zap.Logger
}

func NewSystemHandler(app utils.AppConfig, log *zap.Logger) *SystemHandler {
	return &SystemHandler{
		app:     app,
		started: time.Now(),
		log:     log.With(zap.String("handler", "system")),
	}
}

type healthResponse struct {
	Uptime      float64 `json:"uptime"`
	Message     string  `json:"message"`
	Timestamp   int64   `json:"timestamp"`
	Environment string  `json:"environment"`
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Uptime:      time.Since(h.started).Seconds(),
		Message:     "OK",
		Timestamp:   time.Now().UnixMilli(),
		Environment: h.app.Env,
	})
}

type welcomeResponse struct {
	Success       bool                         `json:"success"`
	Message       string                       `json:"message"`
	Version       string                       `json:"version"`
	Documentation string                       `json:"documentation"`
	Endpoints     map[string]map[string]string `json:"endpoints"`
}

var endpointIndex = map[string]map[string]string{
	"auth": {
		"signup": "POST /api/auth/signup",
		"login":  "POST /api/auth/login",
		"me":     "GET /api/auth/me",
	},
	"books": {
		"getAll": "GET /api/books",
		"getOne": "GET /api/books/:id",
		"create": "POST /api/books",
		"search": "GET /api/search",
	},
	"reviews": {
		"create":         "POST /api/books/:id/reviews",
		"update":         "PUT /api/reviews/:id",
		"delete":         "DELETE /api/reviews/:id",
		"getOne":         "GET /api/reviews/:id",
		"getUserReviews": "GET /api/reviews/user/:userId",
	},
}

// Root handles GET /
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, welcomeResponse{
		Success:       true,
		Message:       "Welcome to Book Review API",
		Version:       apiVersion,
		Documentation: "/api/docs",
		Endpoints:     endpointIndex,
	})
}

// NotFound answers every unmatched route, whatever the method.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("route not found", zap.String("method", r.Method), zap.String("uri", r.RequestURI))
	utils.ResponseNotFound(w, "Route "+r.RequestURI+" not found")
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
