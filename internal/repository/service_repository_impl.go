package repository

import (
	"context"
	"errors"

	"belezure-api/internal/domain/entity"
	domainRepo "belezure-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type serviceRepository struct{}

func NewServiceRepository() domainRepo.ServiceRepository {
	return &serviceRepository{}
}

func (r *serviceRepository) Create(ctx context.Context, db *gorm.DB, service *entity.Service) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *serviceRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Service, error) {
	var service entity.Service
	err := db.WithContext(ctx).Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// FindAll returns services ordered by creation time with id as tiebreak.
// Only active services are returned unless the filter asks otherwise.
func (r *serviceRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ServiceFilter) ([]entity.Service, error) {
	var services []entity.Service
	query := db.WithContext(ctx)

	if filter == nil || !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter != nil {
		if filter.CategoryID != nil {
			query = query.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.ProviderID != nil {
			query = query.Where("provider_id = ?", *filter.ProviderID)
		}
	}

	if err := query.Order("created_at ASC, id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(ctx context.Context, db *gorm.DB, review *entity.Review) error {
	return db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByProviderID(ctx context.Context, db *gorm.DB, providerID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	err := db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
