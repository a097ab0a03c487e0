package adaptor

import (
	"book-review/internal/usecase"
	"book-review/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	Book   *BookHandler
	Review *ReviewHandler
	System *SystemHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	production := config.App.IsProduction()

	return &Handler{
		Auth:   NewAuthHandler(service.Auth, service.User, production, log),
		Book:   NewBookHandler(service.Book, production, log),
		Review: NewReviewHandler(service.Review, production, log),
		System: NewSystemHandler(config.App, log),
	}
}
