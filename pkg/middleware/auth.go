package middleware

import (
	"errors"
	"net/http"
	"strings"

	"book-review/internal/data/repository"
	"book-review/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgNotAuthorized = "Not authorized to access this route"
	msgTokenExpired  = "Token expired"
	msgNoUserFound   = "No user found with this token"
)

// Auth requires a valid bearer token and puts the caller's id and username in the request context.
func Auth(tokens *utils.TokenManager, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(zap.String("middleware", "auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.ResponseUnauthorized(w, msgNotAuthorized)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					utils.ResponseUnauthorized(w, msgTokenExpired)
					return
				}
				logger.Debug("Token rejected", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, msgNotAuthorized)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to resolve token subject",
					zap.Error(err),
					zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Server Error")
				return
			}

			if user == nil {
				logger.Warn("Token for unknown user", zap.String("user_id", userID.String()))
				utils.ResponseUnauthorized(w, msgNoUserFound)
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
