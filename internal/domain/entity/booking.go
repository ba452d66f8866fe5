package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a slot claimed on a provider's ledger.
// ClientName and ServiceName are copied at booking time for the dashboard.
type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	LedgerID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"ledger_id"`
	ProviderID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_booking_provider_date" json:"provider_id"`
	ClientID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"client_id"`
	ServiceID   uuid.UUID     `gorm:"type:uuid;not null" json:"service_id"`
	Date        string        `gorm:"type:varchar(10);not null;index:idx_booking_provider_date" json:"date"`
	Time        string        `gorm:"type:varchar(5);not null" json:"time"`
	ClientName  string        `gorm:"type:varchar(255);not null" json:"client_name"`
	ServiceName string        `gorm:"type:text;not null" json:"service_name"`
	Code        string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// Cancel changes booking status to cancelled
func (b *Booking) Cancel() {
	b.Status = BookingStatusCancelled
}
