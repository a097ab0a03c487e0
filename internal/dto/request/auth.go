package request

import "strings"

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,username" message:"Username must be between 3 and 20 characters"`
	Email    string `json:"email" validate:"required,email" message:"Please enter a valid email address"`
	Password string `json:"password" validate:"required,min=6,password" message:"Password must be at least 6 characters long"`
}

// Normalize trims the username and canonicalizes the e-mail.
func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" message:"Please enter a valid email address"`
	Password string `json:"password" validate:"required" message:"Password is required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
