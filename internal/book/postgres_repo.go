package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// parseID enforces the store's identifier format up front, so a malformed
// id surfaces as ErrInvalidID instead of a driver cast error.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

const bookColumns = `id, title, author, publish_year, description, created_at, updated_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublishYear, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY created_at DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	key, err := parseID(id)
	if err != nil {
		return Book{}, err
	}

	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (id, title, author, publish_year, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.PublishYear, b.Description, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	key, err := parseID(b.ID)
	if err != nil {
		return err
	}

	const query = `
		UPDATE books
		SET title = $2, author = $3, publish_year = $4, description = $5, updated_at = $6
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query,
		key, b.Title, b.Author, b.PublishYear, b.Description, b.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	const query = `DELETE FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// likeEscaper neutralizes LIKE metacharacters so the query is always a
// literal substring, never a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func (r *PostgresRepo) Search(ctx context.Context, q string) ([]Book, error) {
	// Substring OR match across the three text fields; an empty pattern
	// reduces to %% and matches every row. Result order is left to the
	// store.
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE $1 ESCAPE '\'
		   OR author ILIKE $1 ESCAPE '\'
		   OR description ILIKE $1 ESCAPE '\'`

	pattern := searchPattern(q)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
