package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"book-review/internal/data/entity"
	"book-review/internal/data/repository"
	"book-review/internal/dto/request"
	"book-review/internal/dto/response"
	"book-review/pkg/utils"

	"go.uber.org/zap"
)

const msgInvalidCredentials = "Invalid credentials"

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     *utils.TokenManager
	bcryptCost int
	log        *zap.Logger

	// compared against when the e-mail is unknown so both login failures cost one bcrypt run
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users repository.UserRepository,
	tokens *utils.TokenManager,
	bcryptCost int,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log.With(zap.String("service", "auth")),
	}
}

// Signup stores a new account and returns it with a fresh token.
// Duplicate usernames and e-mails surface as unique violations from the insert.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error) {
	hashedPassword, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	user.Touch(time.Now().UTC())

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

// Login never reveals whether the e-mail or the password was wrong.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	dummy := s.dummyPasswordHash()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		utils.CheckPasswordHash(req.Password, dummy)
		s.log.Warn("Login failed", zap.String("email", req.Email))
		return nil, utils.NewUnauthorized(msgInvalidCredentials)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login failed", zap.String("email", req.Email))
		return nil, utils.NewUnauthorized(msgInvalidCredentials)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func (s *authService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := utils.HashPassword("dummy-password-for-timing", s.bcryptCost)
		if err != nil {
			s.log.Error("Failed to hash dummy password", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
