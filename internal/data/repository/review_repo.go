package repository

import (
	"context"
	"errors"
	"fmt"

	"book-review/internal/data/entity"
	"book-review/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByBookID(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*entity.Review, error)
	CountByBookID(ctx context.Context, bookID uuid.UUID) (int64, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	StatsByBookIDs(ctx context.Context, bookIDs []uuid.UUID) ([]entity.RatingStats, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

// reviews joined with their author and book
const reviewColumns = `
		SELECT r.id, r.book_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at,
		       u.username, b.title, b.author
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
`

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, book_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.BookID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Warn("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("book_id", review.BookID.String()),
		)
		return fmt.Errorf("create review for book %s by user %s: %w",
			review.BookID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := reviewColumns + `WHERE r.id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByBookID(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := reviewColumns + `
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, bookID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by book ID",
			zap.Error(err),
			zap.String("book_id", bookID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by book ID %s: %w", bookID.String(), err)
	}

	return r.collect(rows)
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := reviewColumns + `
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by user ID %s: %w", userID.String(), err)
	}

	return r.collect(rows)
}

func (r *reviewRepository) FindByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*entity.Review, error) {
	query := reviewColumns + `
		WHERE r.user_id = $1 AND r.book_id = $2
		LIMIT 1`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, bookID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and book",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("book_id", bookID.String()),
		)
		return nil, fmt.Errorf("find review by user %s and book %s: %w",
			userID.String(), bookID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) CountByBookID(ctx context.Context, bookID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE book_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, bookID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by book ID",
			zap.Error(err),
			zap.String("book_id", bookID.String()),
		)
		return 0, fmt.Errorf("count reviews by book ID %s: %w", bookID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reviews by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update review %s: %w", review.ID.String(), pgx.ErrNoRows)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete review %s: %w", id.String(), pgx.ErrNoRows)
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

// StatsByBookIDs aggregates ratings for every given book in one grouped query.
// Books without reviews are absent from the result.
func (r *reviewRepository) StatsByBookIDs(ctx context.Context, bookIDs []uuid.UUID) ([]entity.RatingStats, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT book_id, AVG(rating)::float8 AS avg_rating, COUNT(*) AS review_count
		FROM reviews
		WHERE book_id = ANY($1)
		GROUP BY book_id
	`

	rows, err := r.db.Query(ctx, query, bookIDs)
	if err != nil {
		r.log.Error("Failed to aggregate ratings",
			zap.Error(err),
			zap.Int("books", len(bookIDs)),
		)
		return nil, fmt.Errorf("aggregate ratings for %d books: %w", len(bookIDs), err)
	}
	defer rows.Close()

	stats := make([]entity.RatingStats, 0, len(bookIDs))
	for rows.Next() {
		var s entity.RatingStats
		if err := rows.Scan(&s.BookID, &s.Average, &s.ReviewCount); err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return stats, nil
}

func (r *reviewRepository) collect(rows pgx.Rows) ([]*entity.Review, error) {
	defer rows.Close()

	reviews := make([]*entity.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Username,
		&review.BookTitle,
		&review.BookAuthor,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
