package repository

import (
	"book-review/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User   UserRepository
	Book   BookRepository
	Review ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(db, log),
		Book:   NewBookRepository(db, log),
		Review: NewReviewRepository(db, log),
	}
}
