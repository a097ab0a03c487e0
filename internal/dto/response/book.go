package response

import (
	"time"

	"book-review/internal/data/entity"
)

type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int64   `json:"totalReviews"`
}

type BookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description"`
	ISBN          *string   `json:"isbn,omitempty"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	AddedBy       UserRef   `json:"addedBy"`
	AverageRating float64   `json:"averageRating"`
	TotalReviews  int64     `json:"totalReviews"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BookDetailResponse struct {
	BookResponse
	Reviews Page[ReviewResponse] `json:"reviews"`
}

func BookToResponse(book *entity.Book, summary RatingSummary) BookResponse {
	return BookResponse{
		ID:            book.ID.String(),
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		Description:   book.Description,
		ISBN:          book.ISBN,
		PublishedYear: book.PublishedYear,
		AddedBy: UserRef{
			ID:       book.AddedBy.String(),
			Username: book.AddedByUsername,
		},
		AverageRating: summary.AverageRating,
		TotalReviews:  summary.TotalReviews,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}
