package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cpisim/cpisim-backend/internal/domain"
)

// councilColumns maps each council to its table column, in insert
// order.
var councilColumns = []struct {
	council domain.Council
	column  string
}{
	{domain.CouncilTokenHouse, "token_house"},
	{domain.CouncilCitizenHouse, "citizen_house"},
	{domain.CouncilGrantsCouncil, "grants_council"},
	{domain.CouncilGrantsSubcommittee, "grants_council_subcommittee"},
	{domain.CouncilSecurityCouncil, "security_council"},
	{domain.CouncilCodeOfConduct, "code_of_conduct_council"},
	{domain.CouncilDevAdvisoryBoard, "developer_advisory_board"},
}

// submissionRepository implements domain.SubmissionRepository
type submissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *DB) domain.SubmissionRepository {
	return &submissionRepository{db: db}
}

// Store persists a new submission with one column per council.
func (r *submissionRepository) Store(ctx context.Context, sub *domain.Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO council_percentages (
			id, token_house, citizen_house, grants_council,
			grants_council_subcommittee, security_council,
			code_of_conduct_council, developer_advisory_board,
			submitted_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	args := make([]interface{}, 0, 10)
	args = append(args, sub.ID)
	for _, cc := range councilColumns {
		args = append(args, sub.Percentages[cc.council].String())
	}
	args = append(args, sub.Timestamp, now)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}

	sub.CreatedAt = now
	return nil
}

// GetByID retrieves a submission by its ID
func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, token_house, citizen_house, grants_council,
			grants_council_subcommittee, security_council,
			code_of_conduct_council, developer_advisory_board,
			submitted_at, created_at
		FROM council_percentages
		WHERE id = $1
	`

	sub, err := r.scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// ListRecent retrieves the most recent submissions, newest first
func (r *submissionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Submission, error) {
	query := `
		SELECT id, token_house, citizen_house, grants_council,
			grants_council_subcommittee, security_council,
			code_of_conduct_council, developer_advisory_board,
			submitted_at, created_at
		FROM council_percentages
		ORDER BY submitted_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Submission
	for rows.Next() {
		sub, err := r.scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return subs, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *submissionRepository) scanSubmission(row scanner) (*domain.Submission, error) {
	var sub domain.Submission
	values := make([]string, len(councilColumns))

	dest := make([]interface{}, 0, 10)
	dest = append(dest, &sub.ID)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &sub.Timestamp, &sub.CreatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	// Parse values (DECIMAL)
	sub.Percentages = make(domain.Distribution, len(councilColumns))
	for i, cc := range councilColumns {
		value, err := decimal.NewFromString(values[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s value: %w", cc.column, err)
		}
		sub.Percentages[cc.council] = value
	}

	return &sub, nil
}
