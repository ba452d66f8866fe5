package repository

import (
	"context"

	"belezure-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, db *gorm.DB, service *entity.Service) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Service, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.ServiceFilter) ([]entity.Service, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, db *gorm.DB, review *entity.Review) error
	FindByProviderID(ctx context.Context, db *gorm.DB, providerID uuid.UUID) ([]entity.Review, error)
}
