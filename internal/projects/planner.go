package projects

import (
	"context"
	"fmt"
	"strings"
)

// Bounds observed from the generation model; anything outside is rejected,
// not clamped.
const (
	minGeneratedMilestones = 4
	maxGeneratedMilestones = 6
)

// PlanItem is one entry of a milestone plan before persistence.
type PlanItem struct {
	Description string
	AmountCents int64
}

// MilestoneGenerator produces milestone descriptions from a project
// description and budget. Satisfied by the Gemini oracle client.
type MilestoneGenerator interface {
	GenerateMilestones(ctx context.Context, description string, budgetCents int64) ([]string, error)
}

// Planner turns a project description and budget into a priced, ordered
// milestone plan.
type Planner struct {
	generator MilestoneGenerator
}

func NewPlanner(generator MilestoneGenerator) *Planner {
	return &Planner{generator: generator}
}

// PlanGenerated asks the generation model for milestone descriptions and
// prices them. Fails with MalformedPlanError if the model returns anything
// other than 4-6 non-empty strings.
func (p *Planner) PlanGenerated(ctx context.Context, description string, budgetCents int64) ([]PlanItem, error) {
	if err := validatePlanInput(description, budgetCents); err != nil {
		return nil, err
	}

	descriptions, err := p.generator.GenerateMilestones(ctx, description, budgetCents)
	if err != nil {
		return nil, fmt.Errorf("milestone generation failed: %w", err)
	}

	if len(descriptions) < minGeneratedMilestones || len(descriptions) > maxGeneratedMilestones {
		return nil, &MalformedPlanError{Reason: fmt.Sprintf("expected %d-%d milestones, got %d",
			minGeneratedMilestones, maxGeneratedMilestones, len(descriptions))}
	}
	for i, d := range descriptions {
		if strings.TrimSpace(d) == "" {
			return nil, &MalformedPlanError{Reason: fmt.Sprintf("milestone %d is empty", i+1)}
		}
	}

	return priceMilestones(descriptions, budgetCents), nil
}

// PlanManual prices an operator-supplied ordered list of descriptions.
func (p *Planner) PlanManual(description string, budgetCents int64, descriptions []string) ([]PlanItem, error) {
	if err := validatePlanInput(description, budgetCents); err != nil {
		return nil, err
	}
	if len(descriptions) == 0 {
		return nil, ErrEmptyPlan
	}
	return priceMilestones(descriptions, budgetCents), nil
}

func validatePlanInput(description string, budgetCents int64) error {
	if strings.TrimSpace(description) == "" {
		return ErrDescriptionRequired
	}
	if budgetCents <= 0 {
		return ErrBudgetNotPositive
	}
	return nil
}

// priceMilestones divides the budget evenly in cents. The integer-division
// remainder goes to the last milestone so the amounts sum to the budget
// exactly.
func priceMilestones(descriptions []string, budgetCents int64) []PlanItem {
	n := int64(len(descriptions))
	share := budgetCents / n

	items := make([]PlanItem, len(descriptions))
	for i, d := range descriptions {
		items[i] = PlanItem{Description: d, AmountCents: share}
	}
	items[len(items)-1].AmountCents += budgetCents - share*n

	return items
}
