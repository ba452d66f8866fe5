package repository

import (
	"context"

	"belezure-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error)
	FindByUserIDs(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]entity.ProviderProfile, error)
}
