package repository

import (
	"context"

	"belezure-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.Booking, error)
	FindActiveByLedgerID(ctx context.Context, db *gorm.DB, ledgerID uuid.UUID) ([]entity.Booking, error)
	FindActiveByDate(ctx context.Context, db *gorm.DB, date string) ([]entity.Booking, error)
	CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
