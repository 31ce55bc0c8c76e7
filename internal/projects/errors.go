package projects

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPlan means a manual plan was supplied with no milestones.
	ErrEmptyPlan = errors.New("milestone plan is empty")
	// ErrBudgetNotPositive rejects zero or negative project budgets.
	ErrBudgetNotPositive = errors.New("total budget must be positive")
	// ErrDescriptionRequired rejects an empty project description.
	ErrDescriptionRequired = errors.New("project description is required")
)

// MalformedPlanError means the generated plan payload did not conform to
// the expected shape (4-6 non-empty milestone descriptions).
type MalformedPlanError struct {
	Reason string
}

func (e *MalformedPlanError) Error() string {
	return fmt.Sprintf("malformed milestone plan: %s", e.Reason)
}
