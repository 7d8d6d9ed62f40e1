package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cpisim/cpisim-backend/internal/domain"
	"github.com/cpisim/cpisim-backend/internal/usecase/annotation"
	"github.com/cpisim/cpisim-backend/internal/usecase/balancer"
	"github.com/cpisim/cpisim-backend/internal/usecase/reconciler"
	"github.com/cpisim/cpisim-backend/internal/usecase/submission"
)

const recentSubmissionsLimit = 10

// SimulationHandler serves the simulation endpoints: running a
// submission, reading the baseline series, and reference data.
type SimulationHandler struct {
	svc      *submission.Service
	repo     domain.SubmissionRepository
	baseline []domain.RawRecord
	builder  *annotation.Builder
	logger   *zap.Logger
}

// NewSimulationHandler creates a new SimulationHandler instance
func NewSimulationHandler(
	svc *submission.Service,
	repo domain.SubmissionRepository,
	baseline []domain.RawRecord,
	builder *annotation.Builder,
	logger *zap.Logger,
) *SimulationHandler {
	return &SimulationHandler{
		svc:      svc,
		repo:     repo,
		baseline: baseline,
		builder:  builder,
		logger:   logger,
	}
}

type simulateRequest struct {
	Percentages map[string]string `json:"percentages"`
	Timestamp   string            `json:"timestamp"`
}

type seriesResponse struct {
	Series  domain.TimeSeries    `json:"series"`
	Markers []domain.EventMarker `json:"markers"`
}

type simulateResponse struct {
	Message      string               `json:"message"`
	SubmissionID string               `json:"submissionId"`
	Series       domain.TimeSeries    `json:"series"`
	Markers      []domain.EventMarker `json:"markers"`
}

// Simulate handles POST /simulate
// Logic:
//  1. Feed the submitted strings through a fresh balancing session
//     (sanitization and the single-empty-field auto-complete rule)
//  2. Require the total to equal 100.00 exactly
//  3. Run the submission orchestration (validate, persist, compute)
//  4. Merge the simulated records with the baseline, annotate, and
//     return the composite series with its event markers
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Percentages == nil || req.Timestamp == "" {
		ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "timestamp must be ISO-8601")
		return
	}

	b := balancer.New()
	for _, c := range domain.Councils() {
		if err := b.SetValue(c, req.Percentages[string(c)]); err != nil {
			ErrorResponse(w, http.StatusBadRequest, "Invalid percentage value for "+string(c))
			return
		}
	}
	b.TryAutoBalance()

	// Itemized missing/invalid field errors take precedence over the
	// total check.
	dist, err := b.Snapshot()
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if !b.ReadyToSubmit(false) {
		ErrorResponse(w, http.StatusBadRequest,
			"percentages must total exactly 100.00, got "+b.Total().StringFixed(2))
		return
	}

	result, err := h.svc.Submit(r.Context(), dist, timestamp)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	series := reconciler.Merge(h.baseline, result.Records)
	series = h.builder.Annotate(series, dist.Shares())

	JSONResponse(w, http.StatusOK, simulateResponse{
		Message:      "Percentages submitted and CPI calculated successfully!",
		SubmissionID: result.SubmissionID.String(),
		Series:       series,
		Markers:      h.builder.Overlay(series.Dates()),
	})
}

// Baseline handles GET /baseline
// Returns the reconciled baseline-only series with its event markers.
func (h *SimulationHandler) Baseline(w http.ResponseWriter, r *http.Request) {
	series := reconciler.Merge(h.baseline, nil)
	series = h.builder.Annotate(series, nil)

	JSONResponse(w, http.StatusOK, seriesResponse{
		Series:  series,
		Markers: h.builder.Overlay(series.Dates()),
	})
}

type councilInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Councils handles GET /councils
func (h *SimulationHandler) Councils(w http.ResponseWriter, r *http.Request) {
	infos := make([]councilInfo, 0, len(domain.Councils()))
	for _, c := range domain.Councils() {
		infos = append(infos, councilInfo{Name: string(c), Description: c.Description()})
	}
	JSONResponse(w, http.StatusOK, infos)
}

type submissionEntry struct {
	ID          string            `json:"id"`
	Percentages map[string]string `json:"percentages"`
	Timestamp   time.Time         `json:"timestamp"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Submissions handles GET /submissions
// Returns the most recent stored submissions, newest first.
func (h *SimulationHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.repo.ListRecent(r.Context(), recentSubmissionsLimit)
	if err != nil {
		h.logger.Error("failed to list submissions", zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve submissions")
		return
	}

	entries := make([]submissionEntry, 0, len(subs))
	for _, sub := range subs {
		percentages := make(map[string]string, len(sub.Percentages))
		for c, value := range sub.Percentages {
			percentages[string(c)] = value.StringFixed(2)
		}
		entries = append(entries, submissionEntry{
			ID:          sub.ID.String(),
			Percentages: percentages,
			Timestamp:   sub.Timestamp,
			CreatedAt:   sub.CreatedAt,
		})
	}

	JSONResponse(w, http.StatusOK, entries)
}

// writeSubmitError maps orchestration failures onto HTTP statuses:
// in-flight rejection is a conflict, validation is the caller's
// fault, anything else failed at an external boundary.
func (h *SimulationHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, submission.ErrSubmissionInFlight):
		ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		ErrorResponse(w, http.StatusBadGateway, err.Error())
	}
}
