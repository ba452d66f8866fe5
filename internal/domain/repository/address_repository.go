package repository

import (
	"context"

	"belezure-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(ctx context.Context, db *gorm.DB, address *entity.Address) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Address, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]entity.Address, error)
}
