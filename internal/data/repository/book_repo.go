package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"book-review/internal/data/entity"
	"book-review/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	FindAll(ctx context.Context, filter entity.BookFilter, limit, offset int) ([]*entity.Book, error)
	Count(ctx context.Context, filter entity.BookFilter) (int64, error)
	Search(ctx context.Context, q string, limit, offset int) ([]*entity.Book, error)
	CountSearch(ctx context.Context, q string) (int64, error)
}

type bookRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookRepository(db database.PgxIface, log *zap.Logger) BookRepository {
	return &bookRepository{
		db:  db,
		log: log.With(zap.String("repository", "book")),
	}
}

const bookColumns = `
		SELECT b.id, b.title, b.author, b.genre, b.description, b.published_year, b.isbn,
		       b.added_by, u.username, b.created_at, b.updated_at
		FROM books b
		JOIN users u ON u.id = b.added_by
`

func (br *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	query := `
		INSERT INTO books (id, title, author, genre, description, published_year, isbn,
		                   added_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := br.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.PublishedYear,
		book.ISBN,
		book.AddedBy,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		br.log.Warn("Failed to create book",
			zap.Error(err),
			zap.String("title", book.Title),
			zap.String("added_by", book.AddedBy.String()),
		)
		return fmt.Errorf("create book %q: %w", book.Title, err)
	}

	return nil
}

func (br *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	query := bookColumns + `WHERE b.id = $1`

	book, err := scanBook(br.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		br.log.Error("Failed to find book by ID",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return nil, fmt.Errorf("find book by ID %s: %w", id.String(), err)
	}

	return book, nil
}

// FindAll lists books newest first, filtered by case-insensitive author/genre substrings.
func (br *bookRepository) FindAll(ctx context.Context, filter entity.BookFilter, limit, offset int) ([]*entity.Book, error) {
	where, args := filterClause(filter)
	args = append(args, limit, offset)

	query := bookColumns + where + fmt.Sprintf(`
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := br.db.Query(ctx, query, args...)
	if err != nil {
		br.log.Error("Failed to get books",
			zap.Error(err),
			zap.String("author", filter.Author),
			zap.String("genre", filter.Genre),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find books limit %d offset %d: %w", limit, offset, err)
	}

	return br.collect(rows)
}

func (br *bookRepository) Count(ctx context.Context, filter entity.BookFilter) (int64, error) {
	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM books b ` + where

	var count int64
	if err := br.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		br.log.Error("Failed to count books", zap.Error(err))
		return 0, fmt.Errorf("count books: %w", err)
	}

	return count, nil
}

// Search matches q against title or author, case-insensitively.
func (br *bookRepository) Search(ctx context.Context, q string, limit, offset int) ([]*entity.Book, error) {
	query := bookColumns + `
		WHERE b.title ILIKE $1 OR b.author ILIKE $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := br.db.Query(ctx, query, containsPattern(q), limit, offset)
	if err != nil {
		br.log.Error("Failed to search books",
			zap.Error(err),
			zap.String("query", q),
		)
		return nil, fmt.Errorf("search books %q: %w", q, err)
	}

	return br.collect(rows)
}

func (br *bookRepository) CountSearch(ctx context.Context, q string) (int64, error) {
	query := `SELECT COUNT(*) FROM books b WHERE b.title ILIKE $1 OR b.author ILIKE $1`

	var count int64
	if err := br.db.QueryRow(ctx, query, containsPattern(q)).Scan(&count); err != nil {
		br.log.Error("Failed to count search results",
			zap.Error(err),
			zap.String("query", q),
		)
		return 0, fmt.Errorf("count search %q: %w", q, err)
	}

	return count, nil
}

func (br *bookRepository) collect(rows pgx.Rows) ([]*entity.Book, error) {
	defer rows.Close()

	books := make([]*entity.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			br.log.Error("Failed to scan book row", zap.Error(err))
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		br.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate book rows: %w", err)
	}

	return books, nil
}

func scanBook(row pgx.Row) (*entity.Book, error) {
	var book entity.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Description,
		&book.PublishedYear,
		&book.ISBN,
		&book.AddedBy,
		&book.AddedByUsername,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func filterClause(filter entity.BookFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Author != "" {
		args = append(args, containsPattern(filter.Author))
		conds = append(conds, fmt.Sprintf("b.author ILIKE $%d", len(args)))
	}
	if filter.Genre != "" {
		args = append(args, containsPattern(filter.Genre))
		conds = append(conds, fmt.Sprintf("b.genre ILIKE $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into a literal substring pattern for ILIKE.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
