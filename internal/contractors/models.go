package contractors

import (
	"time"

	"gorm.io/gorm"
)

// Contractor is the registered party submitting milestone evidence.
// The wallet address is the stable external identity used everywhere else.
type Contractor struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	WalletAddress string         `gorm:"not null;uniqueIndex" json:"wallet_address"`
	CompanyName   string         `gorm:"not null" json:"company_name"`
	Email         string         `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
