package adaptor

import (
	"net/http"

	"book-review/internal/dto/request"
	"book-review/internal/usecase"
	"book-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookHandler struct {
	responder
	service usecase.BookService
}

func NewBookHandler(service usecase.BookService, production bool, log *zap.Logger) *BookHandler {
	return &BookHandler{
		responder: responder{log: log.With(zap.String("handler", "book")), production: production},
		service:   service,
	}
}

// AddBook handles POST /api/books (protected)
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req request.BookRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	if !h.validate(w, &req, utils.LocationBody) {
		return
	}

	book, err := h.service.AddBook(r.Context(), caller, &req)
	if err != nil {
		h.handleServiceError(w, err, "add book")
		return
	}

	utils.ResponseCreated(w, "Book added successfully", book)
}

// GetBooks handles GET /api/books
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	query := request.BookListFromQuery(r.URL.Query())
	if !h.validate(w, &query, utils.LocationQuery) {
		return
	}

	page, err := h.service.GetBooks(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, err, "get books")
		return
	}

	utils.ResponseList(w, page.Data, page.Count, page.Total, page.Pagination, "")
}

// GetBook handles GET /api/books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.validateID(w, "id", id) {
		return
	}

	pagination := request.PaginationFromQuery(r.URL.Query())
	if !h.validate(w, &pagination, utils.LocationQuery) {
		return
	}

	book, err := h.service.GetBook(r.Context(), id, pagination)
	if err != nil {
		h.handleServiceError(w, err, "get book")
		return
	}

	utils.ResponseSuccess(w, "", book)
}

// SearchBooks handles GET /api/books/search and GET /api/search.
// A missing q is reported by the service; a present but invalid q fails validation.
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	query := request.SearchFromQuery(values)

	fields := utils.ValidateStruct(&query, utils.LocationQuery)
	if !values.Has("q") {
		fields = withoutField(fields, "q")
	}
	if !h.reject(w, fields) {
		return
	}

	page, err := h.service.SearchBooks(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, err, "search books")
		return
	}

	utils.ResponseList(w, page.Data, page.Count, page.Total, page.Pagination, query.Q)
}

func withoutField(fields []utils.FieldError, name string) []utils.FieldError {
	kept := fields[:0]
	for _, f := range fields {
		if f.Field != name {
			kept = append(kept, f)
		}
	}
	return kept
}
