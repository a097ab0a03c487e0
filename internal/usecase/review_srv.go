package usecase

import (
	"context"
	"errors"
	"time"

	"book-review/internal/data/entity"
	"book-review/internal/data/repository"
	"book-review/internal/dto/request"
	"book-review/internal/dto/response"
	"book-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	msgReviewNotFound    = "Review not found"
	msgAlreadyReviewed   = "You have already reviewed this book"
	msgNotAllowedUpdate  = "Not authorized to update this review"
	msgNotAllowedDelete  = "Not authorized to delete this review"
	reviewBookUniqueName = "reviews_book_user_key"
)

type ReviewService interface {
	AddReview(ctx context.Context, bookID string, caller Caller, req *request.ReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID string, caller Caller, req *request.ReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID string, caller Caller) error
	GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error)
	GetUserReviews(ctx context.Context, userID string, p request.PaginationQuery) (*response.Page[response.ReviewResponse], error)
}

type reviewService struct {
	repo    *repository.Repository
	ratings RatingService
	log     *zap.Logger
}

func NewReviewService(repo *repository.Repository, ratings RatingService, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:    repo,
		ratings: ratings,
		log:     log.With(zap.String("service", "review")),
	}
}

// AddReview records the caller's single review of a book. The existence check
// gives the friendly error, the unique constraint settles concurrent attempts.
func (s *reviewService) AddReview(ctx context.Context, bookID string, caller Caller, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	bookUUID, err := uuid.Parse(bookID)
	if err != nil {
		return nil, utils.NewNotFound(msgBookNotFound)
	}

	book, err := s.repo.Book.FindByID(ctx, bookUUID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, utils.NewNotFound(msgBookNotFound)
	}

	existing, err := s.repo.Review.FindByUserAndBook(ctx, caller.ID, bookUUID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewBadRequest(msgAlreadyReviewed)
	}

	review := &entity.Review{
		BookID:     bookUUID,
		UserID:     caller.ID,
		Rating:     req.Rating.Int(),
		Comment:    req.Comment,
		Username:   caller.Username,
		BookTitle:  book.Title,
		BookAuthor: book.Author,
	}
	review.Touch(time.Now().UTC())

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if utils.IsUniqueViolation(err, reviewBookUniqueName) {
			return nil, utils.NewConflict(msgAlreadyReviewed, err)
		}
		return nil, err
	}
	s.ratings.Invalidate(bookUUID)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", caller.ID.String()),
		zap.String("book_id", bookID),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, caller Caller, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	review, err := s.ownedReview(ctx, reviewID, caller, msgNotAllowedUpdate)
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating.Int()
	review.Comment = req.Comment
	review.Touch(time.Now().UTC())

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewNotFound(msgReviewNotFound)
		}
		return nil, err
	}
	s.ratings.Invalidate(review.BookID)

	s.log.Info("Review updated",
		zap.String("review_id", review.ID.String()),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string, caller Caller) error {
	review, err := s.ownedReview(ctx, reviewID, caller, msgNotAllowedDelete)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.NewNotFound(msgReviewNotFound)
		}
		return err
	}
	s.ratings.Invalidate(review.BookID)

	return nil
}

func (s *reviewService) GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID string, p request.PaginationQuery) (*response.Page[response.ReviewResponse], error) {
	page, limit := p.Page(), p.Limit()

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		// unknown user: empty listing
		result := response.NewPage[response.ReviewResponse](nil, page, limit, 0)
		return &result, nil
	}

	total, err := s.repo.Review.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByUserID(ctx, userUUID, limit, utils.CalculateOffset(page, limit))
	if err != nil {
		return nil, err
	}

	result := response.NewPage(response.ReviewsToResponse(reviews), page, limit, total)
	return &result, nil
}

func (s *reviewService) findReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, utils.NewNotFound(msgReviewNotFound)
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, utils.NewNotFound(msgReviewNotFound)
	}

	return review, nil
}

// ownedReview loads a review and checks that caller wrote it.
func (s *reviewService) ownedReview(ctx context.Context, reviewID string, caller Caller, denied string) (*entity.Review, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.UserID != caller.ID {
		s.log.Warn("Review ownership check failed",
			zap.String("review_id", reviewID),
			zap.String("caller_id", caller.ID.String()),
		)
		return nil, utils.NewForbidden(denied)
	}

	return review, nil
}
