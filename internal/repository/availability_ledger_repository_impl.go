package repository

import (
	"context"
	"errors"

	"belezure-api/internal/domain/entity"
	domainRepo "belezure-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type availabilityLedgerRepository struct{}

func NewAvailabilityLedgerRepository() domainRepo.AvailabilityLedgerRepository {
	return &availabilityLedgerRepository{}
}

func (r *availabilityLedgerRepository) Create(ctx context.Context, db *gorm.DB, ledger *entity.AvailabilityLedger) error {
	if ledger.Slots == nil {
		ledger.Slots = datatypes.JSONSlice[string]{}
	}
	return db.WithContext(ctx).Create(ledger).Error
}

func (r *availabilityLedgerRepository) FindByProviderAndDate(ctx context.Context, db *gorm.DB, providerID uuid.UUID, date string) (*entity.AvailabilityLedger, error) {
	return r.find(db.WithContext(ctx), providerID, date)
}

func (r *availabilityLedgerRepository) FindByProviderAndDateForUpdate(ctx context.Context, db *gorm.DB, providerID uuid.UUID, date string) (*entity.AvailabilityLedger, error) {
	return r.find(db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), providerID, date)
}

func (r *availabilityLedgerRepository) find(db *gorm.DB, providerID uuid.UUID, date string) (*entity.AvailabilityLedger, error) {
	var ledger entity.AvailabilityLedger
	err := db.Where("provider_id = ? AND date = ?", providerID, date).First(&ledger).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ledger, nil
}

// UpdateSlots is a compare-and-swap on version: 1 = written, 0 = someone else wrote first.
func (r *availabilityLedgerRepository) UpdateSlots(ctx context.Context, db *gorm.DB, id uuid.UUID, slots []string, expectedVersion int) (int64, error) {
	if slots == nil {
		slots = []string{}
	}
	result := db.WithContext(ctx).Model(&entity.AvailabilityLedger{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"slots":   datatypes.JSONSlice[string](slots),
			"version": gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *availabilityLedgerRepository) FindFromDate(ctx context.Context, db *gorm.DB, fromDate string, limit, offset int) ([]entity.AvailabilityLedger, error) {
	var ledgers []entity.AvailabilityLedger
	err := db.WithContext(ctx).
		Where("date >= ?", fromDate).
		Order("date ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&ledgers).Error
	if err != nil {
		return nil, err
	}
	return ledgers, nil
}
