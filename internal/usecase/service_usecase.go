package usecase

import (
	"context"
	"strings"

	"belezure-api/internal/converter"
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"
	"belezure-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ServiceUsecase backs the provider dashboard's service list
type ServiceUsecase interface {
	Create(ctx context.Context, providerID uuid.UUID, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) (*dto.ServiceListResponse, error)
}

type serviceUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	serviceRepo         repository.ServiceRepository
	categoryRepo        repository.CategoryRepository
	providerProfileRepo repository.ProviderProfileRepository
	auditService        service.AuditService
	imageService        service.ImageService
}

func NewServiceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	serviceRepo repository.ServiceRepository,
	categoryRepo repository.CategoryRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	auditService service.AuditService,
	imageService service.ImageService,
) ServiceUsecase {
	return &serviceUsecase{
		db:                  db,
		log:                 log,
		serviceRepo:         serviceRepo,
		categoryRepo:        categoryRepo,
		providerProfileRepo: providerProfileRepo,
		auditService:        auditService,
		imageService:        imageService,
	}
}

func (u *serviceUsecase) Create(ctx context.Context, providerID uuid.UUID, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, &ValidationError{Fields: map[string]string{"Price": "Price must be greater than or equal to 0"}}
	}

	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile %s: %+v", providerID, err)
		return nil, asTransient(err)
	}
	if profile == nil {
		return nil, ErrProviderNotFound
	}

	category, err := u.categoryRepo.FindByID(ctx, u.db, req.CategoryID)
	if err != nil {
		u.log.Warnf("Failed to find category %d: %+v", req.CategoryID, err)
		return nil, asTransient(err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	svc := &entity.Service{
		ProviderID:   providerID,
		CategoryID:   category.ID,
		Description:  strings.TrimSpace(req.Description),
		Price:        req.Price.Round(2),
		IsActive:     boolOrDefault(req.IsActive, true),
		IsAvailable:  boolOrDefault(req.IsAvailable, true),
		HasVariants:  req.HasVariants,
		VariantLabel: strings.TrimSpace(req.VariantLabel),
		ImageRef:     req.ImageKey,
	}
	if !svc.HasVariants {
		svc.VariantLabel = ""
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.serviceRepo.Create(ctx, tx, svc); err != nil {
		u.log.Warnf("Failed to create service: %+v", err)
		return nil, asTransient(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &providerID, entity.AuditActionServiceCreate, "service", svc.ID.String(), map[string]interface{}{
		"category_id": svc.CategoryID,
		"price":       svc.Price.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, asTransient(err)
	}

	return converter.ServiceToResponse(svc, u.imageService.GetImageURL(ctx, svc.ImageRef, DefaultAvatarURL)), nil
}

// ListByProvider includes inactive services
func (u *serviceUsecase) ListByProvider(ctx context.Context, providerID uuid.UUID) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindAll(ctx, u.db, &entity.ServiceFilter{
		ProviderID:      &providerID,
		IncludeInactive: true,
	})
	if err != nil {
		u.log.Warnf("Failed to find services for provider %s: %+v", providerID, err)
		return nil, asTransient(err)
	}

	responses := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		imageURL := u.imageService.GetImageURL(ctx, services[i].ImageRef, DefaultAvatarURL)
		responses = append(responses, *converter.ServiceToResponse(&services[i], imageURL))
	}

	return &dto.ServiceListResponse{
		Services: responses,
		Total:    len(responses),
	}, nil
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
