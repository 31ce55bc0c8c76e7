package projects

// StateMachine enforces milestone status transitions
type StateMachine struct {
	allowedTransitions map[MilestoneStatus][]MilestoneStatus
}

// NewStateMachine creates a new state machine with allowed transitions.
// "paid" is terminal. A rejected milestone may be re-submitted with fresh
// evidence; a payment_failed milestone may only retry settlement, never
// re-verify.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[MilestoneStatus][]MilestoneStatus{
			StatusPending:       {StatusSubmitted},
			StatusSubmitted:     {StatusVerified, StatusRejected},
			StatusVerified:      {StatusPaid, StatusPaymentFailed},
			StatusRejected:      {StatusSubmitted},
			StatusPaymentFailed: {StatusPaid, StatusPaymentFailed},
			StatusPaid:          {},
		},
	}
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to MilestoneStatus) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *StateMachine) GetAllowedTransitions(from MilestoneStatus) []MilestoneStatus {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []MilestoneStatus{}
	}
	return allowed
}
