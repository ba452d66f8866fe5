package usecase

import (
	"context"
	"errors"
	"time"

	"belezure-api/internal/converter"
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"
	"belezure-api/internal/service"
	"belezure-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RegistrationUsecase interface {
	ValidatePersonal(ctx context.Context, req *dto.PersonalDataRequest) error
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
}

type registrationUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	validator           *validator.CustomValidator
	identity            IdentityGateway
	userRepo            repository.UserRepository
	addressRepo         repository.AddressRepository
	providerProfileRepo repository.ProviderProfileRepository
	auditService        service.AuditService
	imageService        service.ImageService
}

func NewRegistrationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	identity IdentityGateway,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	auditService service.AuditService,
	imageService service.ImageService,
) RegistrationUsecase {
	return &registrationUsecase{
		db:                  db,
		log:                 log,
		validator:           validator,
		identity:            identity,
		userRepo:            userRepo,
		addressRepo:         addressRepo,
		providerProfileRepo: providerProfileRepo,
		auditService:        auditService,
		imageService:        imageService,
	}
}

// ValidatePersonal runs step one only so the form can move on to the address step.
func (u *registrationUsecase) ValidatePersonal(ctx context.Context, req *dto.PersonalDataRequest) error {
	return NewRegistrationFlow(u.validator).SubmitPersonal(req)
}

// Register drives both steps and submits.
//
// Flow:
// 1. Create the identity (committed on its own)
// 2. Address, user, provider profile and audit entry in one transaction
// 3. If 2 fails -> compensate: delete the identity
func (u *registrationUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	flow := NewRegistrationFlow(u.validator)
	if err := flow.SubmitPersonal(&req.Personal); err != nil {
		return nil, err
	}
	if err := flow.SubmitAddress(&req.Address); err != nil {
		return nil, err
	}

	result, err := u.submit(ctx, flow.Personal(), flow.Address())
	if err != nil {
		_ = flow.Fail(err)
		return nil, err
	}
	_ = flow.Complete(result.user.ID)

	u.log.Infof("User registered: id=%s, type=%s", result.user.ID, result.user.UserType)
	photoURL := u.imageService.GetImageURL(ctx, result.user.ProfilePhotoRef, DefaultAvatarURL)
	return converter.UserToResponse(result.user, result.address, result.profile, photoURL), nil
}

type registrationResult struct {
	user    *entity.User
	address *entity.Address
	profile *entity.ProviderProfile
}

func (u *registrationUsecase) submit(ctx context.Context, personal *dto.PersonalDataRequest, addressReq *dto.AddressRequest) (*registrationResult, error) {
	// Step 1: identity
	userID, err := u.identity.CreateAccount(ctx, personal.Email, personal.Password)
	if err != nil {
		return nil, err
	}

	// Step 2: profile documents
	result, err := u.writeProfile(ctx, userID, personal, addressReq)
	if err != nil {
		u.log.Errorf("Failed to write profile for identity %s, compensating: %+v", userID, err)

		// Step 3: COMPENSATE - an identity without a profile cannot be used
		compCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if delErr := u.identity.DeleteAccount(compCtx, userID); delErr != nil {
			u.log.Errorf("CRITICAL: Failed to delete orphan identity %s after registration failure: %+v", userID, delErr)
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTransient
		}
		return nil, ErrRegistrationFailed
	}

	return result, nil
}

func (u *registrationUsecase) writeProfile(ctx context.Context, userID uuid.UUID, personal *dto.PersonalDataRequest, addressReq *dto.AddressRequest) (*registrationResult, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	address := converter.AddressRequestToEntity(addressReq)
	if err := u.addressRepo.Create(ctx, tx, address); err != nil {
		u.log.Warnf("Failed to create address: %+v", err)
		return nil, err
	}

	user := &entity.User{
		ID:              userID,
		Name:            personal.Name,
		Email:           personal.Email,
		Phone:           personal.Phone,
		Gender:          personal.Gender,
		CPF:             personal.CPF,
		BirthDate:       personal.BirthDate,
		UserType:        entity.UserType(personal.UserType),
		ProfilePhotoRef: personal.ProfilePhotoKey,
		AddressID:       &address.ID,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	var profile *entity.ProviderProfile
	if user.IsProvider() && personal.Provider != nil {
		profile = &entity.ProviderProfile{
			UserID:       user.ID,
			TaxID:        personal.Provider.TaxID,
			BusinessType: personal.Provider.BusinessType,
			TradeName:    personal.Provider.TradeName,
			Specialty:    personal.Provider.Specialty,
			Field:        personal.Provider.Field,
			About:        personal.Provider.About,
		}
		if err := u.providerProfileRepo.Create(ctx, tx, profile); err != nil {
			u.log.Warnf("Failed to create provider profile: %+v", err)
			return nil, err
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"user_type":  user.UserType,
		"address_id": address.ID.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &registrationResult{user: user, address: address, profile: profile}, nil
}
