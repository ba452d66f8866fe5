package repository

import (
	"context"

	"belezure-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityLedgerRepository interface {
	Create(ctx context.Context, db *gorm.DB, ledger *entity.AvailabilityLedger) error
	FindByProviderAndDate(ctx context.Context, db *gorm.DB, providerID uuid.UUID, date string) (*entity.AvailabilityLedger, error)
	// FindByProviderAndDateForUpdate locks the row until the surrounding transaction ends.
	FindByProviderAndDateForUpdate(ctx context.Context, db *gorm.DB, providerID uuid.UUID, date string) (*entity.AvailabilityLedger, error)
	// UpdateSlots writes slots and bumps the version only if the stored version
	// still equals expectedVersion. Returns affected rows.
	UpdateSlots(ctx context.Context, db *gorm.DB, id uuid.UUID, slots []string, expectedVersion int) (int64, error)
	FindFromDate(ctx context.Context, db *gorm.DB, fromDate string, limit, offset int) ([]entity.AvailabilityLedger, error)
}
