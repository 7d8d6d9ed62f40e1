package domain

import (
	"context"

	"github.com/google/uuid"
)

// SubmissionRepository defines the interface for percentage submission
// persistence operations
type SubmissionRepository interface {
	// Store persists a new submission. The submission's ID must be set
	// by the caller and is the identifier of the stored record.
	Store(ctx context.Context, sub *Submission) error

	// GetByID retrieves a submission by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)

	// ListRecent retrieves the most recent submissions, newest first
	ListRecent(ctx context.Context, limit int) ([]*Submission, error)
}

// CPICalculator defines the boundary to the external CPI computation
// service. Given a complete distribution it returns one simulated
// record per covered date, each with optional per-council attribution.
type CPICalculator interface {
	Calculate(ctx context.Context, percentages Distribution) ([]RawRecord, error)
}
