package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cpisim/cpisim-backend/internal/domain"
)

// MockSubmissionRepository is a mock implementation of SubmissionRepository for testing
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Store(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

// MockCPICalculator is a mock implementation of CPICalculator for testing
type MockCPICalculator struct {
	mock.Mock
}

func (m *MockCPICalculator) Calculate(ctx context.Context, percentages domain.Distribution) ([]domain.RawRecord, error) {
	args := m.Called(ctx, percentages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawRecord), args.Error(1)
}

func validDistribution() domain.Distribution {
	return domain.Distribution{
		domain.CouncilTokenHouse:         decimal.NewFromFloat(32.33),
		domain.CouncilCitizenHouse:       decimal.NewFromFloat(34.59),
		domain.CouncilGrantsCouncil:      decimal.NewFromFloat(10.15),
		domain.CouncilGrantsSubcommittee: decimal.NewFromFloat(2.82),
		domain.CouncilSecurityCouncil:    decimal.NewFromFloat(12.78),
		domain.CouncilCodeOfConduct:      decimal.NewFromFloat(4.32),
		domain.CouncilDevAdvisoryBoard:   decimal.NewFromFloat(3.01),
	}
}

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSubmissionRepository)
	mockCalc := new(MockCPICalculator)
	service := NewService(mockRepo, mockCalc, zap.NewNop())

	records := []domain.RawRecord{{DateKey: "2024-02-01", Value: 0.38}}
	mockRepo.On("Store", ctx, mock.AnythingOfType("*domain.Submission")).Return(nil)
	mockCalc.On("Calculate", ctx, mock.Anything).Return(records, nil)

	result, err := service.Submit(ctx, validDistribution(), time.Now())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEqual(t, uuid.Nil, result.SubmissionID)
	assert.Equal(t, records, result.Records)
	assert.Equal(t, StateReady, service.State())
	assert.Equal(t, result, service.Result())

	mockRepo.AssertExpectations(t)
	mockCalc.AssertExpectations(t)
}

func TestSubmit_ValidationFailureNeverContactsExternalServices(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSubmissionRepository)
	mockCalc := new(MockCPICalculator)
	service := NewService(mockRepo, mockCalc, zap.NewNop())

	incomplete := validDistribution()
	delete(incomplete, domain.CouncilSecurityCouncil)

	_, err := service.Submit(ctx, incomplete, time.Now())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []domain.Council{domain.CouncilSecurityCouncil}, verr.Councils)
	assert.Equal(t, StateFailed, service.State())

	mockRepo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	mockCalc.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything)
}

func TestSubmit_PersistFailureSkipsComputation(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSubmissionRepository)
	mockCalc := new(MockCPICalculator)
	service := NewService(mockRepo, mockCalc, zap.NewNop())

	mockRepo.On("Store", ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := service.Submit(ctx, validDistribution(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing percentages")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, StateFailed, service.State())

	mockCalc.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything)
}

func TestSubmit_ComputeFailureLeavesStoredRecord(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSubmissionRepository)
	mockCalc := new(MockCPICalculator)
	service := NewService(mockRepo, mockCalc, zap.NewNop())

	mockRepo.On("Store", ctx, mock.Anything).Return(nil)
	mockCalc.On("Calculate", ctx, mock.Anything).Return(nil, errors.New("upstream timeout"))

	_, err := service.Submit(ctx, validDistribution(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculating CPI")
	assert.Equal(t, StateFailed, service.State())

	// The persisted record is not rolled back.
	mockRepo.AssertCalled(t, "Store", ctx, mock.Anything)
}

func TestSubmit_FailureIsNotSticky(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSubmissionRepository)
	mockCalc := new(MockCPICalculator)
	service := NewService(mockRepo, mockCalc, zap.NewNop())

	mockRepo.On("Store", ctx, mock.Anything).Return(errors.New("boom")).Once()
	_, err := service.Submit(ctx, validDistribution(), time.Now())
	require.Error(t, err)
	require.Equal(t, StateFailed, service.State())

	mockRepo.On("Store", ctx, mock.Anything).Return(nil).Once()
	mockCalc.On("Calculate", ctx, mock.Anything).Return([]domain.RawRecord{}, nil)

	_, err = service.Submit(ctx, validDistribution(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, StateReady, service.State())
	assert.NoError(t, service.LastError())
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSubmissionRepository)
	mockCalc := new(MockCPICalculator)
	service := NewService(mockRepo, mockCalc, zap.NewNop())

	release := make(chan struct{})
	started := make(chan struct{})

	mockRepo.On("Store", ctx, mock.Anything).Return(nil)
	mockCalc.On("Calculate", ctx, mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		<-release
	}).Return([]domain.RawRecord{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := service.Submit(ctx, validDistribution(), time.Now())
		done <- err
	}()

	<-started
	_, err := service.Submit(ctx, validDistribution(), time.Now())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateReady, service.State())
}
