package request

import "strings"

type ReviewRequest struct {
	Rating  Number `json:"rating" validate:"required,intrange=1-5" message:"Rating must be between 1 and 5"`
	Comment string `json:"comment" validate:"required,min=10,max=500" message:"Comment must be between 10 and 500 characters"`
}

func (r *ReviewRequest) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}
