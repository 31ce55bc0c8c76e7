package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMilestoneTransitions(t *testing.T) {
	sm := NewStateMachine()

	allowed := []struct {
		from, to MilestoneStatus
	}{
		{StatusPending, StatusSubmitted},
		{StatusSubmitted, StatusVerified},
		{StatusSubmitted, StatusRejected},
		{StatusVerified, StatusPaid},
		{StatusVerified, StatusPaymentFailed},
		{StatusRejected, StatusSubmitted},
		{StatusPaymentFailed, StatusPaid},
		{StatusPaymentFailed, StatusPaymentFailed},
	}
	for _, tc := range allowed {
		assert.True(t, sm.CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to MilestoneStatus
	}{
		{StatusPending, StatusVerified},
		{StatusPending, StatusPaid},
		{StatusRejected, StatusVerified},
		{StatusPaymentFailed, StatusSubmitted},
		{StatusPaid, StatusSubmitted},
		{StatusPaid, StatusVerified},
		{StatusPaid, StatusPaymentFailed},
	}
	for _, tc := range denied {
		assert.False(t, sm.CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestPaidIsTerminal(t *testing.T) {
	sm := NewStateMachine()
	assert.Empty(t, sm.GetAllowedTransitions(StatusPaid))
}
