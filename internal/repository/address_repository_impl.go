package repository

import (
	"context"
	"errors"

	"belezure-api/internal/domain/entity"
	domainRepo "belezure-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type addressRepository struct{}

func NewAddressRepository() domainRepo.AddressRepository {
	return &addressRepository{}
}

func (r *addressRepository) Create(ctx context.Context, db *gorm.DB, address *entity.Address) error {
	return db.WithContext(ctx).Create(address).Error
}

func (r *addressRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Address, error) {
	var address entity.Address
	err := db.WithContext(ctx).Where("id = ?", id).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) FindByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]entity.Address, error) {
	var addresses []entity.Address
	if len(ids) == 0 {
		return addresses, nil
	}
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}
