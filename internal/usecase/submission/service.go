package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cpisim/cpisim-backend/internal/domain"
)

// State identifies where the orchestrator is in the submission flow.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StatePersisting State = "PERSISTING"
	StateComputing  State = "COMPUTING"
	StateReady      State = "READY"
	StateFailed     State = "FAILED"
)

// ErrSubmissionInFlight is returned when a submission starts while a
// previous one is still outstanding. Concurrent submissions are
// rejected outright, never queued.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Result is the outcome of a successful submission.
type Result struct {
	SubmissionID uuid.UUID
	Records      []domain.RawRecord
}

// Service drives a submission through validation, persistence, and
// CPI computation. State transitions:
//
//	Idle -> Validating -> Persisting -> Computing -> Ready
//
// and to Failed on any step's failure. Failure is not sticky: the next
// Submit resets the machine, so every failure returns control for a
// retry. Validation failures never contact external services. A
// computation failure does not roll back the persisted record.
type Service struct {
	repo   domain.SubmissionRepository
	calc   domain.CPICalculator
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	inFlight bool
	seq      uint64
	lastErr  error
	result   *Result
}

// NewService creates a new Service instance
func NewService(repo domain.SubmissionRepository, calc domain.CPICalculator, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		calc:   calc,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current orchestration state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the most recent failed submission,
// or nil.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Result returns the outcome of the most recent successful submission,
// or nil when none has completed yet.
func (s *Service) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Submit runs the full orchestration for one distribution, stamped
// with the given submission timestamp. It rejects concurrent calls
// while one is in flight. A stale completion (one that is no longer
// the newest submission) is discarded rather than applied.
func (s *Service) Submit(ctx context.Context, percentages domain.Distribution, timestamp time.Time) (*Result, error) {
	seq, err := s.begin()
	if err != nil {
		return nil, err
	}

	// Validating: re-check completeness and numeric bounds before any
	// external call.
	if err := percentages.Validate(); err != nil {
		return nil, s.fail(seq, err)
	}

	// Persisting: store the raw percentage map with the submission
	// timestamp. No retry on failure.
	s.setState(StatePersisting)
	sub := &domain.Submission{
		ID:          uuid.New(),
		Percentages: percentages,
		Timestamp:   timestamp,
	}
	if err := s.repo.Store(ctx, sub); err != nil {
		return nil, s.fail(seq, fmt.Errorf("storing percentages: %w", err))
	}

	// Computing: failure here leaves the stored record in place.
	s.setState(StateComputing)
	records, err := s.calc.Calculate(ctx, percentages)
	if err != nil {
		return nil, s.fail(seq, fmt.Errorf("calculating CPI: %w", err))
	}

	result := &Result{SubmissionID: sub.ID, Records: records}
	if !s.finish(seq, result) {
		// A newer submission superseded this one while it was
		// outstanding; its result must not overwrite the newer state.
		s.logger.Warn("discarding stale submission result",
			zap.String("submission_id", sub.ID.String()))
		return nil, ErrSubmissionInFlight
	}

	s.logger.Info("submission completed",
		zap.String("submission_id", sub.ID.String()),
		zap.Int("records", len(records)))
	return result, nil
}

// begin transitions Idle/Ready/Failed -> Validating and claims the
// in-flight slot, returning this submission's sequence number.
func (s *Service) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return 0, ErrSubmissionInFlight
	}

	s.inFlight = true
	s.seq++
	s.state = StateValidating
	s.lastErr = nil
	return s.seq, nil
}

func (s *Service) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// fail records the error, transitions to Failed, and releases the
// in-flight slot so the caller can retry.
func (s *Service) fail(seq uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Error("submission failed",
		zap.String("state", string(s.state)),
		zap.Error(err))

	if seq == s.seq {
		s.state = StateFailed
		s.lastErr = err
		s.inFlight = false
	}
	return err
}

// finish applies the result if this submission is still the newest.
// It reports whether the result was applied.
func (s *Service) finish(seq uint64, result *Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return false
	}

	s.state = StateReady
	s.result = result
	s.inFlight = false
	return true
}
