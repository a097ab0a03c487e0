package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"book-review/internal/dto/request"
	"book-review/internal/dto/response"
	"book-review/internal/usecase"
	"book-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Count      *int                 `json:"count"`
	Total      *int64               `json:"total"`
	Pagination *response.Pagination `json:"pagination"`
	Query      string               `json:"query"`
	Data       json.RawMessage      `json:"data"`
	Errors     []utils.FieldError   `json:"errors"`
	Stack      string               `json:"stack"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withURLParams routes r through a chi context carrying the given path params.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asCaller(r *http.Request, caller usecase.Caller) *http.Request {
	return r.WithContext(utils.SetUserContext(r.Context(), caller.ID, caller.Username))
}

func devResponder() responder {
	return responder{log: zap.NewNop()}
}

type stubAuth struct {
	signup func(*request.SignupRequest) (*response.AuthResponse, error)
	login  func(*request.LoginRequest) (*response.AuthResponse, error)
}

func (s *stubAuth) Signup(_ context.Context, req *request.SignupRequest) (*response.AuthResponse, error) {
	return s.signup(req)
}

func (s *stubAuth) Login(_ context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	return s.login(req)
}

type stubUsers struct {
	profile func(uuid.UUID) (*response.UserResponse, error)
}

func (s *stubUsers) GetProfile(_ context.Context, id uuid.UUID) (*response.UserResponse, error) {
	return s.profile(id)
}

type stubBooks struct {
	add    func(usecase.Caller, *request.BookRequest) (*response.BookResponse, error)
	list   func(request.BookListQuery) (*response.Page[response.BookResponse], error)
	get    func(string, request.PaginationQuery) (*response.BookDetailResponse, error)
	search func(request.SearchQuery) (*response.Page[response.BookResponse], error)
}

func (s *stubBooks) AddBook(_ context.Context, c usecase.Caller, req *request.BookRequest) (*response.BookResponse, error) {
	return s.add(c, req)
}

func (s *stubBooks) GetBooks(_ context.Context, q request.BookListQuery) (*response.Page[response.BookResponse], error) {
	return s.list(q)
}

func (s *stubBooks) GetBook(_ context.Context, id string, p request.PaginationQuery) (*response.BookDetailResponse, error) {
	return s.get(id, p)
}

func (s *stubBooks) SearchBooks(_ context.Context, q request.SearchQuery) (*response.Page[response.BookResponse], error) {
	return s.search(q)
}

type stubReviews struct {
	add    func(string, usecase.Caller, *request.ReviewRequest) (*response.ReviewResponse, error)
	update func(string, usecase.Caller, *request.ReviewRequest) (*response.ReviewResponse, error)
	remove func(string, usecase.Caller) error
	get    func(string) (*response.ReviewResponse, error)
	byUser func(string, request.PaginationQuery) (*response.Page[response.ReviewResponse], error)
}

func (s *stubReviews) AddReview(_ context.Context, bookID string, c usecase.Caller, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	return s.add(bookID, c, req)
}

func (s *stubReviews) UpdateReview(_ context.Context, id string, c usecase.Caller, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	return s.update(id, c, req)
}

func (s *stubReviews) DeleteReview(_ context.Context, id string, c usecase.Caller) error {
	return s.remove(id, c)
}

func (s *stubReviews) GetReview(_ context.Context, id string) (*response.ReviewResponse, error) {
	return s.get(id)
}

func (s *stubReviews) GetUserReviews(_ context.Context, userID string, p request.PaginationQuery) (*response.Page[response.ReviewResponse], error) {
	return s.byUser(userID, p)
}
