package repository

import (
	"context"

	"belezure-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IdentityRepository interface {
	Create(ctx context.Context, db *gorm.DB, identity *entity.Identity) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Identity, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]entity.User, error)
}
