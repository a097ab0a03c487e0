package wire

import (
	"net/http"

	"book-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, protect func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/reviews/{id}", reviewHandler.GetReview)
	r.Get("/reviews/user/{userId}", reviewHandler.GetUserReviews)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(protect)

		r.Post("/books/{id}/reviews", reviewHandler.AddReview)
		r.Put("/reviews/{id}", reviewHandler.UpdateReview)
		r.Delete("/reviews/{id}", reviewHandler.DeleteReview)
	})
}
