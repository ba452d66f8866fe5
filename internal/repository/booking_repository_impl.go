package repository

import (
	"context"
	"errors"

	"belezure-api/internal/domain/entity"
	domainRepo "belezure-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC, time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindActiveByLedgerID(ctx context.Context, db *gorm.DB, ledgerID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).
		Where("ledger_id = ? AND status != ?", ledgerID, entity.BookingStatusCancelled).
		Order("time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindActiveByDate(ctx context.Context, db *gorm.DB, date string) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).
		Where("date = ? AND status != ?", date, entity.BookingStatusCancelled).
		Order("time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CancelBooking atomically cancels a booking ONLY if it's not already cancelled.
// Returns affected rows: 1 = success, 0 = already cancelled (prevents double-cancel race).
func (r *bookingRepository) CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ? AND status != ?", id, entity.BookingStatusCancelled).
		Update("status", entity.BookingStatusCancelled)
	return result.RowsAffected, result.Error
}
