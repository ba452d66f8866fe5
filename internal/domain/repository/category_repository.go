package repository

import (
	"context"

	"belezure-api/internal/domain/entity"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Category, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Category, error)
}
