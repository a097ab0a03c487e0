package request

import "strings"

type BookRequest struct {
	Title         string  `json:"title" validate:"required,min=1,max=200" message:"Title must be between 1 and 200 characters"`
	Author        string  `json:"author" validate:"required,min=1,max=100" message:"Author name must be between 1 and 100 characters"`
	Genre         string  `json:"genre" validate:"required,min=1,max=50" message:"Genre must be between 1 and 50 characters"`
	Description   string  `json:"description" validate:"required,min=10,max=1000" message:"Description must be between 10 and 1000 characters"`
	ISBN          *string `json:"isbn,omitempty" validate:"omitempty,isbn"`
	PublishedYear Number  `json:"publishedYear,omitempty" validate:"omitempty,intrange=1000-,notfuture" message:"Published year must be between 1000 and {year}"`
}

// Normalize trims text fields. A blank ISBN is treated as absent.
func (r *BookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Genre = strings.TrimSpace(r.Genre)
	r.Description = strings.TrimSpace(r.Description)

	if r.ISBN != nil {
		isbn := strings.TrimSpace(*r.ISBN)
		if isbn == "" {
			r.ISBN = nil
		} else {
			r.ISBN = &isbn
		}
	}
}
