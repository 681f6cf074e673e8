package book

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Input carries the client-settable fields of a book, for both creation and
// merge updates.
type Input struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	PublishYear int    `json:"publishYear"`
	Description string `json:"description"`
}

// Complete reports whether every field is present under the API's truthy
// presence rules. A zero publish year counts as absent, exactly like an
// empty string. Whitespace-only strings count as present here; they are
// rejected by the per-field validation after trimming.
func (in Input) Complete() bool {
	return in.Title != "" &&
		in.Author != "" &&
		in.PublishYear != 0 &&
		in.Description != ""
}

// Service provides book business logic over a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every book, most recently created first.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// Get returns the book with the given identifier.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the input and persists a new book with a generated
// identifier and matching creation/update timestamps.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	b := Book{
		Title:       in.Title,
		Author:      in.Author,
		PublishYear: in.PublishYear,
		Description: in.Description,
	}
	b.Normalize()
	if err := b.Validate(); err != nil {
		return Book{}, err
	}

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.repo.Insert(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update merges the input into the existing book field by field: a present
// (truthy) value replaces the stored one, an absent value leaves it
// untouched. The merged record is re-validated before saving.
func (s *Service) Update(ctx context.Context, id string, in Input) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if in.Title != "" {
		b.Title = in.Title
	}
	if in.Author != "" {
		b.Author = in.Author
	}
	if in.PublishYear != 0 {
		b.PublishYear = in.PublishYear
	}
	if in.Description != "" {
		b.Description = in.Description
	}

	b.Normalize()
	if err := b.Validate(); err != nil {
		return Book{}, err
	}

	b.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete resolves the book by identifier and removes it permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, b.ID)
}

// Search returns books where q is a case-insensitive substring of title,
// author, or description.
func (s *Service) Search(ctx context.Context, q string) ([]Book, error) {
	return s.repo.Search(ctx, q)
}
