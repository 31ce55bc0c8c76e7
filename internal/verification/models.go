package verification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VerificationAttempt is the durable audit record of one oracle judgment.
// Rows are written once per verification call and never mutated, so an
// operator can reconcile a crash between verdict and settlement.
type VerificationAttempt struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MilestoneID     uint           `gorm:"not null;index" json:"milestone_id"`
	EvidenceURL     string         `gorm:"not null" json:"evidence_url"`
	Verified        bool           `json:"verified"`
	ConfidenceScore int            `json:"confidence_score"`
	Reasoning       string         `json:"reasoning"`
	RawVerdict      datatypes.JSON `json:"raw_verdict,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
