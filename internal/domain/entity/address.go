package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is immutable after registration
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostalCode string    `gorm:"type:varchar(9);not null" json:"postal_code"`
	City       string    `gorm:"type:varchar(100);not null" json:"city"`
	State      string    `gorm:"type:varchar(50);not null" json:"state"`
	District   string    `gorm:"type:varchar(100);not null" json:"district"`
	Street     string    `gorm:"type:varchar(255);not null" json:"street"`
	Number     string    `gorm:"type:varchar(20);not null" json:"number"`
	Complement string    `gorm:"type:varchar(255)" json:"complement,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Address) TableName() string {
	return "addresses"
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
