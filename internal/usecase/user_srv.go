package usecase

import (
	"context"

	"book-review/internal/data/repository"
	"book-review/internal/dto/response"
	"book-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		us.log.Warn("Profile requested for missing user", zap.String("user_id", userID.String()))
		return nil, utils.NewNotFound("User not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
