package wire

import (
	"net/http"

	"book-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBook(r chi.Router, bookHandler *adaptor.BookHandler, protect func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/books", bookHandler.GetBooks)
	r.Get("/books/search", bookHandler.SearchBooks)
	r.Get("/books/{id}", bookHandler.GetBook)
	r.Get("/search", bookHandler.SearchBooks)

	// ==================== PROTECTED ROUTES ====================
	r.With(protect).Post("/books", bookHandler.AddBook)
}
