package book

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when no book exists for a well-formed identifier.
var ErrNotFound = errors.New("book not found")

// ErrInvalidID is returned when an identifier fails the store's format rule.
// Handlers treat it exactly like ErrNotFound so callers cannot probe the
// shape of storage keys.
var ErrInvalidID = errors.New("invalid book id")

// Book represents a book record. Timestamps are audit-only and never appear
// in API responses.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishYear int       `json:"publishYear"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// ValidationError carries one message per failing field, in field order
// (title, author, publishYear, description).
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("year_max", validateYearMax)
}

// validateYearMax checks the dynamic upper bound for publish years. It is
// evaluated per validation call so a long-running process stays correct
// across a year boundary.
func validateYearMax(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(time.Now().Year()+5)
}

// bookRules mirrors the validated fields of Book. Field order here fixes the
// order of violation messages.
type bookRules struct {
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	PublishYear int    `validate:"required,gte=1000,year_max"`
	Description string `validate:"required"`
}

// Normalize trims surrounding whitespace from the string fields, matching
// what the store persists.
func (b *Book) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Description = strings.TrimSpace(b.Description)
}

// Validate checks the four client-settable fields and returns a
// *ValidationError listing every violation, or nil if the book is valid.
func (b *Book) Validate() error {
	rules := bookRules{
		Title:       b.Title,
		Author:      b.Author,
		PublishYear: b.PublishYear,
		Description: b.Description,
	}

	err := validate.Struct(rules)
	if err == nil {
		return nil
	}

	var messages []string
	for _, fieldErr := range err.(validator.ValidationErrors) {
		messages = append(messages, violationMessage(fieldErr))
	}
	return &ValidationError{Messages: messages}
}

func violationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.StructField() {
	case "Title":
		return "Title is required"
	case "Author":
		return "Author is required"
	case "Description":
		return "Description is required"
	case "PublishYear":
		switch fieldErr.Tag() {
		case "required":
			return "Publish year is required"
		case "gte":
			return "Year must be at least 1000"
		case "year_max":
			return "Year cannot be in the far future"
		}
	}
	return "Invalid value"
}
