package repository

import (
	"context"
	"errors"

	"belezure-api/internal/domain/entity"
	domainRepo "belezure-api/internal/domain/repository"

	"gorm.io/gorm"
)

type categoryRepository struct{}

func NewCategoryRepository() domainRepo.CategoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Category, error) {
	var categories []entity.Category
	if err := db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Category, error) {
	var category entity.Category
	err := db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}
