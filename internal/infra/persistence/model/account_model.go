package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'user_accounts' table. Each row is one provider
// credential linked to a user.
type AccountModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_accounts_provider_provider_id"`
	ProviderID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_provider_provider_id"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "user_accounts"
}
