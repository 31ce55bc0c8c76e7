package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"optic-gov/oracle-backend/internal/projects"
	"optic-gov/oracle-backend/pkg/oracle"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetMilestone(ctx context.Context, id uint) (*projects.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projects.Milestone), args.Error(1)
}

func (m *MockStore) ListMilestones(ctx context.Context, projectID uint) ([]projects.Milestone, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]projects.Milestone), args.Error(1)
}

func (m *MockStore) ListMilestonesByStatus(ctx context.Context, status projects.MilestoneStatus) ([]projects.Milestone, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]projects.Milestone), args.Error(1)
}

func (m *MockStore) UpdateMilestoneStatus(ctx context.Context, id uint, from, to projects.MilestoneStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockStore) MarkMilestonePaid(ctx context.Context, id uint, from projects.MilestoneStatus, txHash string) error {
	args := m.Called(ctx, id, from, txHash)
	return args.Error(0)
}

func (m *MockStore) CreateAttempt(ctx context.Context, attempt *VerificationAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

type fakeOracle struct {
	verdict *oracle.Verdict
	err     error

	started chan struct{}
	block   chan struct{}
}

func (f *fakeOracle) VerifyEvidence(ctx context.Context, videoURL, criteria string) (*oracle.Verdict, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.verdict, f.err
}

type fakeSettlement struct {
	txHash string
	err    error

	mu    sync.Mutex
	calls int
}

func (f *fakeSettlement) Release(ctx context.Context, projectID uint) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.txHash, f.err
}

func (f *fakeSettlement) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pendingMilestone() *projects.Milestone {
	return &projects.Milestone{
		ID:          7,
		ProjectID:   3,
		Description: "foundation poured",
		AmountCents: 250000,
		OrderIndex:  1,
		Status:      projects.StatusPending,
	}
}

func newTestService(store Store, o OracleClient, s SettlementClient) *Service {
	return NewService(store, o, s, time.Second, time.Second)
}

func TestVerifyPassingVerdictSettles(t *testing.T) {
	store := new(MockStore)
	settled := &fakeSettlement{txHash: "0xabc"}
	verdict := &oracle.Verdict{Verified: true, ConfidenceScore: 97, Reasoning: "slab visible and cured"}
	service := newTestService(store, &fakeOracle{verdict: verdict}, settled)

	store.On("GetMilestone", mock.Anything, uint(7)).Return(pendingMilestone(), nil)
	store.On("CreateAttempt", mock.Anything, mock.AnythingOfType("*verification.VerificationAttempt")).Return(nil)
	store.On("UpdateMilestoneStatus", mock.Anything, uint(7), projects.StatusPending, projects.StatusVerified).Return(nil)
	store.On("MarkMilestonePaid", mock.Anything, uint(7), projects.StatusVerified, "0xabc").Return(nil)

	got, err := service.Verify(context.Background(), 7, "https://video", "foundation poured")

	assert.NoError(t, err)
	assert.Equal(t, verdict, got)
	assert.Equal(t, 1, settled.callCount())
	store.AssertExpectations(t)
}

func TestVerifyGateBoundary(t *testing.T) {
	cases := []struct {
		confidence int
		settles    bool
	}{
		{94, false},
		{95, true},
	}

	for _, tc := range cases {
		store := new(MockStore)
		settled := &fakeSettlement{txHash: "0xabc"}
		verdict := &oracle.Verdict{Verified: true, ConfidenceScore: tc.confidence}
		service := newTestService(store, &fakeOracle{verdict: verdict}, settled)

		store.On("GetMilestone", mock.Anything, uint(7)).Return(pendingMilestone(), nil)
		store.On("CreateAttempt", mock.Anything, mock.Anything).Return(nil)
		if tc.settles {
			store.On("UpdateMilestoneStatus", mock.Anything, uint(7), projects.StatusPending, projects.StatusVerified).Return(nil)
			store.On("MarkMilestonePaid", mock.Anything, uint(7), projects.StatusVerified, "0xabc").Return(nil)
		} else {
			store.On("UpdateMilestoneStatus", mock.Anything, uint(7), projects.StatusPending, projects.StatusRejected).Return(nil)
		}

		got, err := service.Verify(context.Background(), 7, "https://video", "criteria")

		assert.NoError(t, err)
		assert.Equal(t, tc.confidence, got.ConfidenceScore)
		if tc.settles {
			assert.Equal(t, 1, settled.callCount(), "confidence %d", tc.confidence)
		} else {
			assert.Equal(t, 0, settled.callCount(), "confidence %d", tc.confidence)
		}
		store.AssertExpectations(t)
	}
}

func TestVerifyNegativeVerdictRejects(t *testing.T) {
	store := new(MockStore)
	settled := &fakeSettlement{}
	verdict := &oracle.Verdict{Verified: false, ConfidenceScore: 99, Reasoning: "no roofing visible"}
	service := newTestService(store, &fakeOracle{verdict: verdict}, settled)

	store.On("GetMilestone", mock.Anything, uint(7)).Return(pendingMilestone(), nil)
	store.On("CreateAttempt", mock.Anything, mock.Anything).Return(nil)
	store.On("UpdateMilestoneStatus", mock.Anything, uint(7), projects.StatusPending, projects.StatusRejected).Return(nil)

	got, err := service.Verify(context.Background(), 7, "https://video", "criteria")

	assert.NoError(t, err)
	assert.False(t, got.Verified)
	assert.Equal(t, 0, settled.callCount())
	store.AssertExpectations(t)
}

func TestVerifyOracleFailureLeavesStateUntouched(t *testing.T) {
	store := new(MockStore)
	service := newTestService(store, &fakeOracle{err: errors.New("upstream 503")}, &fakeSettlement{})

	store.On("GetMilestone", mock.Anything, uint(7)).Return(pendingMilestone(), nil)

	_, err := service.Verify(context.Background(), 7, "https://video", "criteria")

	var oracleErr *OracleUnavailableError
	assert.ErrorAs(t, err, &oracleErr)
	store.AssertNotCalled(t, "UpdateMilestoneStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestVerifySettlementFailureKeepsVerdict(t *testing.T) {
	store := new(MockStore)
	settled := &fakeSettlement{err: errors.New("insufficient gas")}
	verdict := &oracle.Verdict{Verified: true, ConfidenceScore: 98, Reasoning: "complete"}
	service := newTestService(store, &fakeOracle{verdict: verdict}, settled)

	store.On("GetMilestone", mock.Anything, uint(7)).Return(pendingMilestone(), nil)
	store.On("CreateAttempt", mock.Anything, mock.Anything).Return(nil)
	store.On("UpdateMilestoneStatus", mock.Anything, uint(7), projects.StatusPending, projects.StatusVerified).Return(nil)
	store.On("UpdateMilestoneStatus", mock.Anything, uint(7), projects.StatusVerified, projects.StatusPaymentFailed).Return(nil)

	got, err := service.Verify(context.Background(), 7, "https://video", "criteria")

	assert.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Equal(t, 98, got.ConfidenceScore)
	store.AssertExpectations(t)
}

func TestVerifyPaidMilestoneRefused(t *testing.T) {
	store := new(MockStore)
	settled := &fakeSettlement{}
	service := newTestService(store, &fakeOracle{}, settled)

	paid := pendingMilestone()
	paid.Status = projects.StatusPaid
	store.On("GetMilestone", mock.Anything, uint(7)).Return(paid, nil)

	_, err := service.Verify(context.Background(), 7, "https://video", "criteria")

	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Equal(t, 0, settled.callCount())
}

func TestVerifyPaymentFailedRequiresRetryPath(t *testing.T) {
	store := new(MockStore)
	service := newTestService(store, &fakeOracle{}, &fakeSettlement{})

	failed := pendingMilestone()
	failed.Status = projects.StatusPaymentFailed
	store.On("GetMilestone", mock.Anything, uint(7)).Return(failed, nil)

	_, err := service.Verify(context.Background(), 7, "https://video", "criteria")

	assert.ErrorIs(t, err, ErrAwaitingSettlement)
}

func TestConcurrentVerificationSingleSettlement(t *testing.T) {
	store := new(MockStore)
	settled := &fakeSettlement{txHash: "0xabc"}
	blocking := &fakeOracle{
		verdict: &oracle.Verdict{Verified: true, ConfidenceScore: 99},
		started: make(chan struct{}, 1),
		block:   make(chan struct{}),
	}
	service := newTestService(store, blocking, settled)

	store.On("GetMilestone", mock.Anything, uint(7)).Return(pendingMilestone(), nil)
	store.On("CreateAttempt", mock.Anything, mock.Anything).Return(nil)
	store.On("UpdateMilestoneStatus", mock.Anything, uint(7), projects.StatusPending, projects.StatusVerified).Return(nil)
	store.On("MarkMilestonePaid", mock.Anything, uint(7), projects.StatusVerified, "0xabc").Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := service.Verify(context.Background(), 7, "https://video", "criteria")
		done <- err
	}()

	// Wait until the first attempt is inside the oracle call, then race a
	// second attempt against it.
	<-blocking.started
	_, err := service.Verify(context.Background(), 7, "https://video", "criteria")
	assert.ErrorIs(t, err, ErrConcurrentVerification)

	close(blocking.block)
	assert.NoError(t, <-done)
	assert.Equal(t, 1, settled.callCount())
}

func TestRetrySettlementFromPaymentFailed(t *testing.T) {
	store := new(MockStore)
	settled := &fakeSettlement{txHash: "0xdef"}
	service := newTestService(store, &fakeOracle{}, settled)

	failed := pendingMilestone()
	failed.Status = projects.StatusPaymentFailed
	paid := pendingMilestone()
	paid.Status = projects.StatusPaid

	store.On("GetMilestone", mock.Anything, uint(7)).Return(failed, nil).Once()
	store.On("MarkMilestonePaid", mock.Anything, uint(7), projects.StatusPaymentFailed, "0xdef").Return(nil)
	store.On("GetMilestone", mock.Anything, uint(7)).Return(paid, nil).Once()

	milestone, err := service.RetrySettlement(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, projects.StatusPaid, milestone.Status)
	assert.Equal(t, 1, settled.callCount())
	store.AssertExpectations(t)
}

func TestRetrySettlementOnlyFromPaymentFailed(t *testing.T) {
	store := new(MockStore)
	settled := &fakeSettlement{}
	service := newTestService(store, &fakeOracle{}, settled)

	store.On("GetMilestone", mock.Anything, uint(7)).Return(pendingMilestone(), nil)

	_, err := service.RetrySettlement(context.Background(), 7)

	assert.ErrorIs(t, err, ErrNotRetryable)
	assert.Equal(t, 0, settled.callCount())
}
