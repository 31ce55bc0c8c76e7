package contractors

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, contractor *Contractor) error
	GetByEmail(ctx context.Context, email string) (*Contractor, error)
	GetByWallet(ctx context.Context, walletAddress string) (*Contractor, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new contractor repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, contractor *Contractor) error {
	return r.db.WithContext(ctx).Create(contractor).Error
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*Contractor, error) {
	var contractor Contractor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&contractor).Error; err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *gormRepository) GetByWallet(ctx context.Context, walletAddress string) (*Contractor, error) {
	var contractor Contractor
	if err := r.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&contractor).Error; err != nil {
		return nil, err
	}
	return &contractor, nil
}
