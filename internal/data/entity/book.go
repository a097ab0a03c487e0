package entity

import (
	"github.com/google/uuid"
)

type Book struct {
	Base
	Title         string    `db:"title"`
	Author        string    `db:"author"`
	Genre         string    `db:"genre"`
	Description   string    `db:"description"`
	PublishedYear *int      `db:"published_year"`
	ISBN          *string   `db:"isbn"`
	AddedBy       uuid.UUID `db:"added_by"`

	// joined from users on read
	AddedByUsername string `db:"added_by_username"`
}

// BookFilter narrows the catalog listing. Empty fields match everything.
type BookFilter struct {
	Author string
	Genre  string
}

// RatingStats is the grouped aggregate of a book's reviews.
type RatingStats struct {
	BookID      uuid.UUID `db:"book_id"`
	Average     float64   `db:"avg_rating"`
	ReviewCount int64     `db:"review_count"`
}
