package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book storage. Implementations must
// keep three failure kinds distinguishable: ErrInvalidID for identifiers
// that fail the store's format rule, ErrNotFound for well-formed but absent
// identifiers, and anything else for unexpected store failures.
type Repository interface {
	// List returns every book, most recently created first.
	List(ctx context.Context) ([]Book, error)
	// GetByID returns the book with the given identifier.
	GetByID(ctx context.Context, id string) (Book, error)
	// Insert persists a new book.
	Insert(ctx context.Context, b *Book) error
	// Update persists changes to an existing book.
	Update(ctx context.Context, b *Book) error
	// Delete removes a book permanently.
	Delete(ctx context.Context, id string) error
	// Search returns books where q is a case-insensitive substring of
	// title, author, or description. An empty q matches every book.
	Search(ctx context.Context, q string) ([]Book, error)
}
