package projects

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uint) (*Project, error)
	ListMilestones(ctx context.Context, projectID uint) ([]Milestone, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new project repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreateProject persists the project together with its milestone batch in a
// single transaction: either everything is created or nothing is.
func (r *gormRepository) CreateProject(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(project).Error
	})
}

func (r *gormRepository) GetProject(ctx context.Context, id uint) (*Project, error) {
	var project Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *gormRepository) ListMilestones(ctx context.Context, projectID uint) ([]Milestone, error) {
	var milestones []Milestone
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_index asc").
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}
