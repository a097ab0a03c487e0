package adaptor

import (
	"net/http"

	"book-review/internal/dto/request"
	"book-review/internal/usecase"
	"book-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	responder
	service usecase.ReviewService
}

func NewReviewHandler(service usecase.ReviewService, production bool, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		responder: responder{log: log.With(zap.String("handler", "review")), production: production},
		service:   service,
	}
}

// AddReview handles POST /api/books/{id}/reviews (protected)
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Not authorized to access this route")
		return
	}

	bookID := chi.URLParam(r, "id")
	if !h.validateID(w, "id", bookID) {
		return
	}

	req, ok := h.reviewBody(w, r)
	if !ok {
		return
	}

	review, err := h.service.AddReview(r.Context(), bookID, caller, req)
	if err != nil {
		h.handleServiceError(w, err, "add review")
		return
	}

	utils.ResponseCreated(w, "Review added successfully", review)
}

// UpdateReview handles PUT /api/reviews/{id} (protected, owner only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Not authorized to access this route")
		return
	}

	reviewID := chi.URLParam(r, "id")
	if !h.validateID(w, "id", reviewID) {
		return
	}

	req, ok := h.reviewBody(w, r)
	if !ok {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), reviewID, caller, req)
	if err != nil {
		h.handleServiceError(w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (protected, owner only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Not authorized to access this route")
		return
	}

	reviewID := chi.URLParam(r, "id")
	if !h.validateID(w, "id", reviewID) {
		return
	}

	if err := h.service.DeleteReview(r.Context(), reviewID, caller); err != nil {
		h.handleServiceError(w, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted successfully", nil)
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if !h.validateID(w, "id", reviewID) {
		return
	}

	review, err := h.service.GetReview(r.Context(), reviewID)
	if err != nil {
		h.handleServiceError(w, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "", review)
}

// GetUserReviews handles GET /api/reviews/user/{userId}
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !h.validateID(w, "userId", userID) {
		return
	}

	pagination := request.PaginationFromQuery(r.URL.Query())
	if !h.validate(w, &pagination, utils.LocationQuery) {
		return
	}

	page, err := h.service.GetUserReviews(r.Context(), userID, pagination)
	if err != nil {
		h.handleServiceError(w, err, "get user reviews")
		return
	}

	utils.ResponseList(w, page.Data, page.Count, page.Total, page.Pagination, "")
}

func (h *ReviewHandler) reviewBody(w http.ResponseWriter, r *http.Request) (*request.ReviewRequest, bool) {
	var req request.ReviewRequest
	if !h.decodeJSON(w, r, &req) {
		return nil, false
	}
	req.Normalize()

	if !h.validate(w, &req, utils.LocationBody) {
		return nil, false
	}
	return &req, true
}
