package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Submission represents a persisted percentage submission in the
// domain layer.
type Submission struct {
	ID          uuid.UUID
	Percentages Distribution
	Timestamp   time.Time
	CreatedAt   time.Time
}

// Validate ensures the submission adheres to domain rules
// Returns an error if validation fails
func (s *Submission) Validate() error {
	if s.ID == uuid.Nil {
		return errors.New("submission ID cannot be empty")
	}
	if s.Timestamp.IsZero() {
		return errors.New("submission timestamp cannot be zero")
	}
	return s.Percentages.Validate()
}
