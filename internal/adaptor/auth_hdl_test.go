package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"book-review/internal/dto/request"
	"book-review/internal/dto/response"
	"book-review/internal/usecase"
	"book-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthHandler(auth *stubAuth, users *stubUsers) *AuthHandler {
	return NewAuthHandler(auth, users, false, zap.NewNop())
}

func TestSignup(t *testing.T) {
	var got *request.SignupRequest
	auth := &stubAuth{signup: func(req *request.SignupRequest) (*response.AuthResponse, error) {
		got = req
		return &response.AuthResponse{
			User:  response.UserResponse{ID: uuid.NewString(), Username: req.Username, Email: req.Email},
			Token: "signed",
		}, nil
	}}
	h := newAuthHandler(auth, nil)

	rec := httptest.NewRecorder()
	h.Signup(rec, jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":" reader_1 ","email":" Reader@Example.COM ","password":"Secret1"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "User registered successfully", body.Message)

	require.NotNil(t, got)
	assert.Equal(t, "reader_1", got.Username)
	assert.Equal(t, "reader@example.com", got.Email)

	var data response.AuthResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "signed", data.Token)
	assert.NotContains(t, string(body.Data), "Secret1")
}

func TestSignupReportsEveryInvalidField(t *testing.T) {
	called := false
	h := newAuthHandler(&stubAuth{signup: func(*request.SignupRequest) (*response.AuthResponse, error) {
		called = true
		return nil, nil
	}}, nil)

	rec := httptest.NewRecorder()
	h.Signup(rec, jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":"a!","email":"not-an-email","password":"short"}`))

	assert.False(t, called)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body.Message)

	fields := map[string]utils.FieldError{}
	for _, fe := range body.Errors {
		fields[fe.Field] = fe
	}
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	require.Contains(t, fields, "password")
	assert.Equal(t, utils.LocationBody, fields["password"].Location)
	assert.Nil(t, fields["password"].Value)
}

func TestSignupDuplicate(t *testing.T) {
	h := newAuthHandler(&stubAuth{signup: func(*request.SignupRequest) (*response.AuthResponse, error) {
		return nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}}, nil)

	rec := httptest.NewRecorder()
	h.Signup(rec, jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":"reader_1","email":"reader@example.com","password":"Secret1"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists", decode(t, rec).Message)
}

func TestLogin(t *testing.T) {
	h := newAuthHandler(&stubAuth{login: func(req *request.LoginRequest) (*response.AuthResponse, error) {
		if req.Password != "Secret1" {
			return nil, utils.NewUnauthorized("Invalid credentials")
		}
		return &response.AuthResponse{Token: "signed"}, nil
	}}, nil)

	rec := httptest.NewRecorder()
	h.Login(rec, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"reader@example.com","password":"Secret1"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", decode(t, rec).Message)

	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"reader@example.com","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode(t, rec).Message)

	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"reader@example.com"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	id := uuid.New()
	h := newAuthHandler(nil, &stubUsers{profile: func(got uuid.UUID) (*response.UserResponse, error) {
		if got != id {
			return nil, errors.New("unexpected id")
		}
		return &response.UserResponse{ID: got.String(), Username: "reader_1"}, nil
	}})

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Me(rec, asCaller(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), usecase.Caller{ID: id, Username: "reader_1"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var user response.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &user))
	assert.Equal(t, id.String(), user.ID)
}
