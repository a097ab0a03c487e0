package response

import (
	"time"

	"book-review/internal/data/entity"
)

type BookRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	User      UserRef   `json:"user"`
	Book      *BookRef  `json:"book,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewToResponse projects a review with its author. The book summary is
// included only when the row was joined with its book.
func ReviewToResponse(review *entity.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:      review.ID.String(),
		BookID:  review.BookID.String(),
		UserID:  review.UserID.String(),
		Rating:  review.Rating,
		Comment: review.Comment,
		User: UserRef{
			ID:       review.UserID.String(),
			Username: review.Username,
		},
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}

	if review.BookTitle != "" {
		resp.Book = &BookRef{
			ID:     review.BookID.String(),
			Title:  review.BookTitle,
			Author: review.BookAuthor,
		}
	}

	return resp
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewToResponse(r))
	}
	return out
}
