package usecase

import (
	"book-review/internal/data/repository"
	"book-review/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Book   BookService
	Review ReviewService
	Rating RatingService
}

func NewService(repo *repository.Repository, config *utils.Config, tokens *utils.TokenManager, log *zap.Logger) *Service {
	rating := NewRatingService(repo.Review, config.Cache.RatingTTL, log)

	return &Service{
		Auth:   NewAuthService(repo.User, tokens, config.JWT.BcryptCost, log),
		User:   NewUserService(repo.User, log),
		Book:   NewBookService(repo, rating, log),
		Review: NewReviewService(repo, rating, log),
		Rating: rating,
	}
}
