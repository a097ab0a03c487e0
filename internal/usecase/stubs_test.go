package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"book-review/internal/data/entity"
	"book-review/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// store is an in-memory stand-in for the three tables, enforcing the same unique constraints.
type store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*entity.User
	books   map[uuid.UUID]*entity.Book
	reviews map[uuid.UUID]*entity.Review

	statsCalls int
	// afterStats runs once the aggregate is computed, outside the lock
	afterStats func()
}

func newStore() *store {
	return &store{
		users:   map[uuid.UUID]*entity.User{},
		books:   map[uuid.UUID]*entity.Book{},
		reviews: map[uuid.UUID]*entity.Review{},
	}
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		User:   &stubUserRepo{s},
		Book:   &stubBookRepo{s},
		Review: &stubReviewRepo{s},
	}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func nopLogger() *zap.Logger { return zap.NewNop() }

type stubUserRepo struct{ s *store }

func (r *stubUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return uniqueViolation("users_username_key")
		}
		if u.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type stubBookRepo struct{ s *store }

func (r *stubBookRepo) Create(_ context.Context, book *entity.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if book.ISBN != nil {
		for _, b := range r.s.books {
			if b.ISBN != nil && *b.ISBN == *book.ISBN {
				return uniqueViolation("books_isbn_key")
			}
		}
	}
	cp := *book
	r.s.books[book.ID] = &cp
	return nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if b, ok := r.s.books[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *stubBookRepo) matching(pred func(*entity.Book) bool) []*entity.Book {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Book
	for _, b := range r.s.books {
		if pred(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func filterPred(f entity.BookFilter) func(*entity.Book) bool {
	return func(b *entity.Book) bool {
		return contains(b.Author, f.Author) && contains(b.Genre, f.Genre)
	}
}

func searchPred(q string) func(*entity.Book) bool {
	return func(b *entity.Book) bool {
		return contains(b.Title, q) || contains(b.Author, q)
	}
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (r *stubBookRepo) FindAll(_ context.Context, f entity.BookFilter, limit, offset int) ([]*entity.Book, error) {
	return window(r.matching(filterPred(f)), limit, offset), nil
}

func (r *stubBookRepo) Count(_ context.Context, f entity.BookFilter) (int64, error) {
	return int64(len(r.matching(filterPred(f)))), nil
}

func (r *stubBookRepo) Search(_ context.Context, q string, limit, offset int) ([]*entity.Book, error) {
	return window(r.matching(searchPred(q)), limit, offset), nil
}

func (r *stubBookRepo) CountSearch(_ context.Context, q string) (int64, error) {
	return int64(len(r.matching(searchPred(q)))), nil
}

type stubReviewRepo struct{ s *store }

func (r *stubReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rv := range r.s.reviews {
		if rv.BookID == review.BookID && rv.UserID == review.UserID {
			return uniqueViolation("reviews_book_user_key")
		}
	}
	cp := *review
	r.s.reviews[review.ID] = &cp
	return nil
}

func (r *stubReviewRepo) enrich(rv *entity.Review) *entity.Review {
	cp := *rv
	if u, ok := r.s.users[rv.UserID]; ok {
		cp.Username = u.Username
	}
	if b, ok := r.s.books[rv.BookID]; ok {
		cp.BookTitle = b.Title
		cp.BookAuthor = b.Author
	}
	return &cp
}

func (r *stubReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if rv, ok := r.s.reviews[id]; ok {
		return r.enrich(rv), nil
	}
	return nil, nil
}

func (r *stubReviewRepo) where(pred func(*entity.Review) bool) []*entity.Review {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if pred(rv) {
			out = append(out, r.enrich(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubReviewRepo) FindByBookID(_ context.Context, bookID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return window(r.where(func(rv *entity.Review) bool { return rv.BookID == bookID }), limit, offset), nil
}

func (r *stubReviewRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return window(r.where(func(rv *entity.Review) bool { return rv.UserID == userID }), limit, offset), nil
}

func (r *stubReviewRepo) FindByUserAndBook(_ context.Context, userID, bookID uuid.UUID) (*entity.Review, error) {
	found := r.where(func(rv *entity.Review) bool { return rv.UserID == userID && rv.BookID == bookID })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *stubReviewRepo) CountByBookID(_ context.Context, bookID uuid.UUID) (int64, error) {
	return int64(len(r.where(func(rv *entity.Review) bool { return rv.BookID == bookID }))), nil
}

func (r *stubReviewRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.where(func(rv *entity.Review) bool { return rv.UserID == userID }))), nil
}

func (r *stubReviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[review.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	rv.Rating = review.Rating
	rv.Comment = review.Comment
	rv.UpdatedAt = review.UpdatedAt
	return nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *stubReviewRepo) StatsByBookIDs(_ context.Context, bookIDs []uuid.UUID) ([]entity.RatingStats, error) {
	r.s.mu.Lock()
	r.s.statsCalls++

	var out []entity.RatingStats
	for _, id := range bookIDs {
		var sum, n int64
		for _, rv := range r.s.reviews {
			if rv.BookID == id {
				sum += int64(rv.Rating)
				n++
			}
		}
		if n > 0 {
			out = append(out, entity.RatingStats{BookID: id, Average: float64(sum) / float64(n), ReviewCount: n})
		}
	}
	hook := r.s.afterStats
	r.s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}
