package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	BookID  uuid.UUID `db:"book_id"`
	UserID  uuid.UUID `db:"user_id"`
	Rating  int       `db:"rating"` // 1-5
	Comment string    `db:"comment"`

	// joined on read
	Username   string `db:"username"`
	BookTitle  string `db:"book_title"`
	BookAuthor string `db:"book_author"`
}
