package projects

import (
	"time"

	"gorm.io/gorm"
)

// MilestoneStatus is the lifecycle state of a milestone
type MilestoneStatus string

const (
	StatusPending       MilestoneStatus = "pending"
	StatusSubmitted     MilestoneStatus = "submitted"
	StatusVerified      MilestoneStatus = "verified"
	StatusRejected      MilestoneStatus = "rejected"
	StatusPaid          MilestoneStatus = "paid"
	StatusPaymentFailed MilestoneStatus = "payment_failed"
)

// Project represents a contracted unit of work with a fixed budget.
// The budget is immutable after creation; the milestone amounts always
// sum to it exactly.
type Project struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Description      string         `json:"description"`
	TotalBudgetCents int64          `gorm:"not null" json:"total_budget_cents"`
	ContractorID     uint           `gorm:"not null;index" json:"contractor_id"`
	AIGenerated      bool           `json:"ai_generated"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	Milestones       []Milestone    `gorm:"foreignKey:ProjectID" json:"milestones,omitempty"`
}

// Milestone is a priced, ordered unit of work. Milestones are created in a
// batch with their project and never deleted afterwards; only the
// verification orchestrator mutates their status.
type Milestone struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProjectID        uint            `gorm:"not null;uniqueIndex:idx_milestone_project_order" json:"project_id"`
	Description      string          `gorm:"not null" json:"description"`
	AmountCents      int64           `gorm:"not null" json:"amount_cents"`
	OrderIndex       int             `gorm:"not null;uniqueIndex:idx_milestone_project_order" json:"order_index"`
	Status           MilestoneStatus `gorm:"not null;default:'pending'" json:"status"`
	SettlementTxHash *string         `json:"settlement_tx_hash,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Amount returns the milestone amount in currency units.
func (m *Milestone) Amount() float64 {
	return float64(m.AmountCents) / 100
}
