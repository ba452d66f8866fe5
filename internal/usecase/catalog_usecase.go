package usecase

import (
	"context"
	"errors"
	"math"
	"strings"

	"belezure-api/internal/converter"
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"
	"belezure-api/internal/service"
	"belezure-api/pkg/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

const (
	LocationUnavailable = "location unavailable"
	NotAvailable        = "not available"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type CatalogUsecase interface {
	ListServices(ctx context.Context, filter *entity.ServiceFilter) (*dto.ServiceListingListResponse, error)
	ListCategories(ctx context.Context) (*dto.CategoryListResponse, error)
	GetCategory(ctx context.Context, id int) (*dto.CategoryDetailResponse, error)
	GetService(ctx context.Context, id uuid.UUID) (*dto.ServiceListingResponse, error)
	GetProviderProfile(ctx context.Context, providerID uuid.UUID) (*dto.ProviderPageResponse, error)
	CreateReview(ctx context.Context, sess session.Session, providerID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type catalogUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	serviceRepo         repository.ServiceRepository
	categoryRepo        repository.CategoryRepository
	providerProfileRepo repository.ProviderProfileRepository
	userRepo            repository.UserRepository
	addressRepo         repository.AddressRepository
	reviewRepo          repository.ReviewRepository
	auditService        service.AuditService
	imageService        service.ImageService
}

func NewCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	serviceRepo repository.ServiceRepository,
	categoryRepo repository.CategoryRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
	imageService service.ImageService,
) CatalogUsecase {
	return &catalogUsecase{
		db:                  db,
		log:                 log,
		serviceRepo:         serviceRepo,
		categoryRepo:        categoryRepo,
		providerProfileRepo: providerProfileRepo,
		userRepo:            userRepo,
		addressRepo:         addressRepo,
		reviewRepo:          reviewRepo,
		auditService:        auditService,
		imageService:        imageService,
	}
}

// ListServices returns active services joined with provider name, specialty and location.
func (u *catalogUsecase) ListServices(ctx context.Context, filter *entity.ServiceFilter) (*dto.ServiceListingListResponse, error) {
	if filter != nil {
		f := *filter
		f.IncludeInactive = false
		filter = &f
	}

	services, err := u.serviceRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, asTransient(err)
	}

	listings, err := u.buildListings(ctx, services)
	if err != nil {
		return nil, err
	}

	return &dto.ServiceListingListResponse{
		Services: listings,
		Total:    len(listings),
	}, nil
}

// providerDisplay is the joined provider -> user -> address view of one provider
type providerDisplay struct {
	name      string
	specialty string
	city      string
	district  string
}

// buildListings joins services to their providers with one batched query per hop.
// Services whose provider profile is missing are dropped.
func (u *catalogUsecase) buildListings(ctx context.Context, services []entity.Service) ([]dto.ServiceListingResponse, error) {
	listings := make([]dto.ServiceListingResponse, 0, len(services))
	if len(services) == 0 {
		return listings, nil
	}

	providerIDs := make([]uuid.UUID, 0, len(services))
	seen := make(map[uuid.UUID]struct{}, len(services))
	for _, s := range services {
		if _, ok := seen[s.ProviderID]; !ok {
			seen[s.ProviderID] = struct{}{}
			providerIDs = append(providerIDs, s.ProviderID)
		}
	}

	displays, err := u.loadProviderDisplays(ctx, providerIDs)
	if err != nil {
		return nil, err
	}

	for i := range services {
		s := &services[i]
		display, ok := displays[s.ProviderID]
		if !ok {
			u.log.Warnf("Dropping service %s from listing: provider %s not found", s.ID, s.ProviderID)
			continue
		}
		imageURL := u.imageService.GetImageURL(ctx, s.ImageRef, DefaultAvatarURL)
		listings = append(listings, converter.ServiceToListing(s, imageURL, display.name, display.specialty, display.city, display.district))
	}

	return listings, nil
}

func (u *catalogUsecase) loadProviderDisplays(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]providerDisplay, error) {
	profiles, err := u.providerProfileRepo.FindByUserIDs(ctx, u.db, providerIDs)
	if err != nil {
		u.log.Warnf("Failed to find provider profiles: %+v", err)
		return nil, asTransient(err)
	}

	userIDs := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := u.userRepo.FindByIDs(ctx, u.db, userIDs)
	if err != nil {
		u.log.Warnf("Failed to find provider users: %+v", err)
		return nil, asTransient(err)
	}

	addressIDs := make([]uuid.UUID, 0, len(users))
	usersByID := make(map[uuid.UUID]*entity.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
		if users[i].AddressID != nil {
			addressIDs = append(addressIDs, *users[i].AddressID)
		}
	}
	addresses, err := u.addressRepo.FindByIDs(ctx, u.db, addressIDs)
	if err != nil {
		u.log.Warnf("Failed to find provider addresses: %+v", err)
		return nil, asTransient(err)
	}
	addressesByID := make(map[uuid.UUID]*entity.Address, len(addresses))
	for i := range addresses {
		addressesByID[addresses[i].ID] = &addresses[i]
	}

	displays := make(map[uuid.UUID]providerDisplay, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		var address *entity.Address
		if user, ok := usersByID[p.UserID]; !ok {
			u.log.Warnf("Provider %s has no user record", p.UserID)
		} else if user.AddressID != nil {
			address = addressesByID[*user.AddressID]
		}
		displays[p.UserID] = newProviderDisplay(p, address)
	}
	return displays, nil
}

func newProviderDisplay(profile *entity.ProviderProfile, address *entity.Address) providerDisplay {
	d := providerDisplay{
		name:      orDefault(profile.TradeName, NotAvailable),
		specialty: orDefault(profile.Specialty, NotAvailable),
		city:      LocationUnavailable,
		district:  LocationUnavailable,
	}
	if address != nil {
		d.city = orDefault(address.City, LocationUnavailable)
		d.district = orDefault(address.District, LocationUnavailable)
	}
	return d
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func (u *catalogUsecase) ListCategories(ctx context.Context) (*dto.CategoryListResponse, error) {
	categories, err := u.categoryRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find categories: %+v", err)
		return nil, asTransient(err)
	}

	return &dto.CategoryListResponse{
		Categories: converter.CategoriesToResponses(categories),
		Total:      len(categories),
	}, nil
}

func (u *catalogUsecase) GetCategory(ctx context.Context, id int) (*dto.CategoryDetailResponse, error) {
	category, err := u.categoryRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find category %d: %+v", id, err)
		return nil, asTransient(err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	listing, err := u.ListServices(ctx, &entity.ServiceFilter{CategoryID: &category.ID})
	if err != nil {
		return nil, err
	}

	return &dto.CategoryDetailResponse{
		Category: *converter.CategoryToResponse(category),
		Services: listing.Services,
	}, nil
}

// GetService is the detail page: a dangling provider is reported as not found, not dropped.
func (u *catalogUsecase) GetService(ctx context.Context, id uuid.UUID) (*dto.ServiceListingResponse, error) {
	svc, err := u.serviceRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", id, err)
		return nil, asTransient(err)
	}
	if svc == nil || !svc.IsActive {
		return nil, ErrServiceNotFound
	}

	listings, err := u.buildListings(ctx, []entity.Service{*svc})
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, ErrServiceNotFound
	}

	return &listings[0], nil
}

// GetProviderProfile loads the provider page. Services and reviews are fetched concurrently.
func (u *catalogUsecase) GetProviderProfile(ctx context.Context, providerID uuid.UUID) (*dto.ProviderPageResponse, error) {
	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile %s: %+v", providerID, err)
		return nil, asTransient(err)
	}
	if profile == nil {
		return nil, ErrProviderNotFound
	}

	user, err := u.userRepo.FindByID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider user %s: %+v", providerID, err)
		return nil, asTransient(err)
	}

	var address *entity.Address
	if user != nil && user.AddressID != nil {
		address, err = u.addressRepo.FindByID(ctx, u.db, *user.AddressID)
		if err != nil {
			u.log.Warnf("Failed to find address %s: %+v", *user.AddressID, err)
			return nil, asTransient(err)
		}
	}

	var (
		services []entity.Service
		reviews  []entity.Review
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		services, err = u.serviceRepo.FindAll(ctx, u.db, &entity.ServiceFilter{ProviderID: &providerID})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		reviews, err = u.reviewRepo.FindByProviderID(ctx, u.db, providerID)
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to load provider page %s: %+v", providerID, err)
		return nil, asTransient(err)
	}

	display := newProviderDisplay(profile, address)
	listings := make([]dto.ServiceListingResponse, 0, len(services))
	for i := range services {
		s := &services[i]
		imageURL := u.imageService.GetImageURL(ctx, s.ImageRef, DefaultAvatarURL)
		listings = append(listings, converter.ServiceToListing(s, imageURL, display.name, display.specialty, display.city, display.district))
	}

	page := &dto.ProviderPageResponse{
		Profile:       *converter.ProviderProfileToResponse(profile),
		Name:          NotAvailable,
		PhotoURL:      DefaultAvatarURL,
		City:          display.city,
		District:      display.district,
		Services:      listings,
		Reviews:       converter.ReviewsToResponses(reviews),
		AverageRating: averageRating(reviews),
		ReviewCount:   len(reviews),
	}
	if user != nil {
		page.Name = user.Name
		page.PhotoURL = u.imageService.GetImageURL(ctx, user.ProfilePhotoRef, DefaultAvatarURL)
	}

	return page, nil
}

// averageRating is rounded to two decimals; zero when there are no reviews.
func averageRating(reviews []entity.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*100) / 100
}

func (u *catalogUsecase) CreateReview(ctx context.Context, sess session.Session, providerID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if !sess.IsClient() {
		return nil, ErrClientOnly
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &ValidationError{Fields: map[string]string{"Rating": "Rating must be between 1 and 5"}}
	}

	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile %s: %+v", providerID, err)
		return nil, asTransient(err)
	}
	if profile == nil {
		return nil, ErrProviderNotFound
	}

	client, err := u.userRepo.FindByID(ctx, u.db, sess.UserID)
	if err != nil {
		u.log.Warnf("Failed to find client %s: %+v", sess.UserID, err)
		return nil, asTransient(err)
	}
	if client == nil {
		return nil, ErrUserNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	review := &entity.Review{
		ProviderID: providerID,
		ClientID:   client.ID,
		ClientName: client.Name,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := u.reviewRepo.Create(ctx, tx, review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, asTransient(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &client.ID, entity.AuditActionReviewCreate, "review", review.ID.String(), map[string]interface{}{
		"provider_id": providerID.String(),
		"rating":      review.Rating,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, asTransient(err)
	}

	return converter.ReviewToResponse(review), nil
}
