package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is an offering listed by a provider
type Service struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"provider_id"`
	CategoryID   int             `gorm:"not null;index" json:"category_id"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive     bool            `gorm:"not null;index" json:"is_active"`
	IsAvailable  bool            `gorm:"not null" json:"is_available"`
	HasVariants  bool            `gorm:"not null" json:"has_variants"`
	VariantLabel string          `gorm:"type:varchar(100)" json:"variant_label,omitempty"`
	ImageRef     string          `gorm:"type:text" json:"image_ref,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Bookable reports whether clients may book this service
func (s *Service) Bookable() bool {
	return s.IsActive && s.IsAvailable
}

// Category is seed data referenced by services
type Category struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

// Review is a client's rating of a provider
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientName string    `gorm:"type:varchar(255);not null" json:"client_name"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
