package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateLayout is the calendar-day format used as part of the ledger key
const DateLayout = "2006-01-02"

// AvailabilityLedger is the per (provider, date) record of open time slots.
// Version increases on every write and backs conditional updates.
type AvailabilityLedger struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_provider_date" json:"provider_id"`
	Date       string                      `gorm:"type:varchar(10);not null;uniqueIndex:idx_ledger_provider_date" json:"date"`
	Slots      datatypes.JSONSlice[string] `json:"slots"`
	Version    int                         `gorm:"not null;default:0" json:"version"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Bookings []Booking `gorm:"foreignKey:LedgerID" json:"bookings,omitempty"`
}

func (AvailabilityLedger) TableName() string {
	return "availability_ledgers"
}

func (l *AvailabilityLedger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// HasSlot reports whether label is currently offered
func (l *AvailabilityLedger) HasSlot(label string) bool {
	for _, s := range l.Slots {
		if s == label {
			return true
		}
	}
	return false
}

// RemoveSlot returns the slot list without label
func (l *AvailabilityLedger) RemoveSlot(label string) []string {
	out := make([]string, 0, len(l.Slots))
	for _, s := range l.Slots {
		if s != label {
			out = append(out, s)
		}
	}
	return out
}
