package usecase

import (
	"context"
	"time"

	"book-review/internal/data/entity"
	"book-review/internal/data/repository"
	"book-review/internal/dto/request"
	"book-review/internal/dto/response"
	"book-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgBookNotFound = "Book not found"

type BookService interface {
	AddBook(ctx context.Context, creator Caller, req *request.BookRequest) (*response.BookResponse, error)
	GetBooks(ctx context.Context, q request.BookListQuery) (*response.Page[response.BookResponse], error)
	GetBook(ctx context.Context, id string, p request.PaginationQuery) (*response.BookDetailResponse, error)
	SearchBooks(ctx context.Context, q request.SearchQuery) (*response.Page[response.BookResponse], error)
}

// Caller identifies the authenticated user behind a request.
type Caller struct {
	ID       uuid.UUID
	Username string
}

type bookService struct {
	repo    *repository.Repository
	ratings RatingService
	log     *zap.Logger
}

func NewBookService(repo *repository.Repository, ratings RatingService, log *zap.Logger) BookService {
	return &bookService{
		repo:    repo,
		ratings: ratings,
		log:     log.With(zap.String("service", "book")),
	}
}

func (s *bookService) AddBook(ctx context.Context, creator Caller, req *request.BookRequest) (*response.BookResponse, error) {
	book := &entity.Book{
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		Description:     req.Description,
		ISBN:            req.ISBN,
		PublishedYear:   req.PublishedYear.IntPtr(),
		AddedBy:         creator.ID,
		AddedByUsername: creator.Username,
	}
	book.Touch(time.Now().UTC())

	if err := s.repo.Book.Create(ctx, book); err != nil {
		return nil, err
	}

	s.log.Info("Book added",
		zap.String("book_id", book.ID.String()),
		zap.String("added_by", creator.ID.String()),
	)

	resp := response.BookToResponse(book, response.RatingSummary{})
	return &resp, nil
}

func (s *bookService) GetBooks(ctx context.Context, q request.BookListQuery) (*response.Page[response.BookResponse], error) {
	page, limit := q.Page(), q.Limit()
	filter := entity.BookFilter{Author: q.Author, Genre: q.Genre}

	total, err := s.repo.Book.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	books, err := s.repo.Book.FindAll(ctx, filter, limit, utils.CalculateOffset(page, limit))
	if err != nil {
		return nil, err
	}

	return s.page(ctx, books, page, limit, total)
}

// GetBook returns the book with its rating summary and one page of its reviews.
func (s *bookService) GetBook(ctx context.Context, id string, p request.PaginationQuery) (*response.BookDetailResponse, error) {
	bookID, err := uuid.Parse(id)
	if err != nil {
		return nil, utils.NewNotFound(msgBookNotFound)
	}

	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, utils.NewNotFound(msgBookNotFound)
	}

	page, limit := p.Page(), p.Limit()

	totalReviews, err := s.repo.Review.CountByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByBookID(ctx, bookID, limit, utils.CalculateOffset(page, limit))
	if err != nil {
		return nil, err
	}

	summary, err := s.ratings.Summary(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &response.BookDetailResponse{
		BookResponse: response.BookToResponse(book, summary),
		Reviews:      response.NewPage(response.ReviewsToResponse(reviews), page, limit, totalReviews),
	}, nil
}

func (s *bookService) SearchBooks(ctx context.Context, q request.SearchQuery) (*response.Page[response.BookResponse], error) {
	if q.Q == "" {
		return nil, utils.NewBadRequest("Search query is required")
	}

	page, limit := q.Page(), q.Limit()

	total, err := s.repo.Book.CountSearch(ctx, q.Q)
	if err != nil {
		return nil, err
	}

	books, err := s.repo.Book.Search(ctx, q.Q, limit, utils.CalculateOffset(page, limit))
	if err != nil {
		return nil, err
	}

	return s.page(ctx, books, page, limit, total)
}

// page attaches rating summaries with a single aggregation over the page's ids.
func (s *bookService) page(ctx context.Context, books []*entity.Book, page, limit int, total int64) (*response.Page[response.BookResponse], error) {
	ids := make([]uuid.UUID, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}

	summaries, err := s.ratings.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := make([]response.BookResponse, 0, len(books))
	for _, b := range books {
		data = append(data, response.BookToResponse(b, summaries[b.ID]))
	}

	result := response.NewPage(data, page, limit, total)
	return &result, nil
}
