package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the base for every "referenced entity is absent" failure.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the base for malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrQuizNotFound is returned when a submission references an unknown quiz.
	ErrQuizNotFound = fmt.Errorf("quiz %w", ErrNotFound)
	// ErrArticleNotFound indicates the article could not be loaded.
	ErrArticleNotFound = fmt.Errorf("article %w", ErrNotFound)
	// ErrUserNotFound indicates the acting user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrQuestionNotFound indicates a question ID could not be resolved.
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IntegrityWarning is reported when a submitted answer references a question that
// cannot be resolved. The answer is skipped and the submission continues.
type IntegrityWarning struct {
	QuestionID int64 `json:"questionId"`
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("answer references unknown question %d", w.QuestionID)
}

// IsNotFound reports whether err belongs to the NotFound family.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err belongs to the ValidationFailure family.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
