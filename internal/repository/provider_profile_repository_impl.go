package repository

import (
	"context"
	"errors"

	"belezure-api/internal/domain/entity"
	domainRepo "belezure-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type providerProfileRepository struct{}

func NewProviderProfileRepository() domainRepo.ProviderProfileRepository {
	return &providerProfileRepository{}
}

func (r *providerProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *providerProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error) {
	var profile entity.ProviderProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *providerProfileRepository) FindByUserIDs(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]entity.ProviderProfile, error) {
	var profiles []entity.ProviderProfile
	if len(userIDs) == 0 {
		return profiles, nil
	}
	if err := db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
