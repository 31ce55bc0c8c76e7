package verification

import (
	"context"

	"gorm.io/gorm"

	"optic-gov/oracle-backend/internal/projects"
)

// Store is the entity-store surface the orchestrator needs. Status updates
// are conditional on the expected current status so the verified-to-paid
// transition is a compare-and-transition, not a read-then-write race.
type Store interface {
	GetMilestone(ctx context.Context, id uint) (*projects.Milestone, error)
	ListMilestones(ctx context.Context, projectID uint) ([]projects.Milestone, error)
	ListMilestonesByStatus(ctx context.Context, status projects.MilestoneStatus) ([]projects.Milestone, error)
	UpdateMilestoneStatus(ctx context.Context, id uint, from, to projects.MilestoneStatus) error
	MarkMilestonePaid(ctx context.Context, id uint, from projects.MilestoneStatus, txHash string) error
	CreateAttempt(ctx context.Context, attempt *VerificationAttempt) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new verification store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetMilestone(ctx context.Context, id uint) (*projects.Milestone, error) {
	var milestone projects.Milestone
	if err := s.db.WithContext(ctx).First(&milestone, id).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (s *gormStore) ListMilestones(ctx context.Context, projectID uint) ([]projects.Milestone, error) {
	var milestones []projects.Milestone
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_index asc").
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

func (s *gormStore) ListMilestonesByStatus(ctx context.Context, status projects.MilestoneStatus) ([]projects.Milestone, error) {
	var milestones []projects.Milestone
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at asc").
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

func (s *gormStore) UpdateMilestoneStatus(ctx context.Context, id uint, from, to projects.MilestoneStatus) error {
	res := s.db.WithContext(ctx).
		Model(&projects.Milestone{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *gormStore) MarkMilestonePaid(ctx context.Context, id uint, from projects.MilestoneStatus, txHash string) error {
	res := s.db.WithContext(ctx).
		Model(&projects.Milestone{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":             projects.StatusPaid,
			"settlement_tx_hash": txHash,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *gormStore) CreateAttempt(ctx context.Context, attempt *VerificationAttempt) error {
	return s.db.WithContext(ctx).Create(attempt).Error
}
