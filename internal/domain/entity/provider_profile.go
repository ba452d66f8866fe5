package entity

import (
	"time"

	"github.com/google/uuid"
)

const DefaultBusinessType = "MEI"

// ProviderProfile holds provider-specific data, keyed by the owning user
type ProviderProfile struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TaxID        string    `gorm:"type:varchar(20)" json:"tax_id,omitempty"`
	BusinessType string    `gorm:"type:varchar(50);not null;default:'MEI'" json:"business_type"`
	TradeName    string    `gorm:"type:varchar(255);not null" json:"trade_name"`
	Specialty    string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Field        string    `gorm:"type:varchar(100);not null" json:"field"`
	About        string    `gorm:"type:text" json:"about,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}
