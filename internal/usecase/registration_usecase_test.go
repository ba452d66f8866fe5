package usecase

import (
	"context"
	"testing"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	domainRepo "belezure-api/internal/domain/repository"
	"belezure-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type failingProfileRepository struct {
	domainRepo.ProviderProfileRepository
}

func (failingProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	return errInjected
}

func newRegistrationUsecase(env *testEnv, profileRepo domainRepo.ProviderProfileRepository) RegistrationUsecase {
	return NewRegistrationUsecase(env.db, env.log, env.validator, env.identity, repository.NewUserRepository(),
		repository.NewAddressRepository(), profileRepo, env.audit, env.images)
}

func providerRegistration(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Personal: dto.PersonalDataRequest{
			Name:      "  Ana Souza ",
			Email:     email,
			Password:  "secret123",
			CPF:       "529.982.247-25",
			BirthDate: "1990-04-12",
			Phone:     "11999990000",
			Gender:    "female",
			UserType:  "provider",
			Provider: &dto.ProviderDataRequest{
				TradeName: "Studio Ana",
				Specialty: "Manicure",
				Field:     "Unhas",
			},
		},
		Address: dto.AddressRequest{
			PostalCode: "01310-100",
			City:       "São Paulo",
			State:      "SP",
			District:   "Bela Vista",
			Street:     "Av. Paulista",
			Number:     "1000",
		},
	}
}

func clientRegistration(email string) *dto.RegisterRequest {
	req := providerRegistration(email)
	req.Personal.UserType = "client"
	return req
}

func TestRegister_Provider(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, repository.NewProviderProfileRepository())

	got, err := uc.Register(context.Background(), providerRegistration("Ana@Example.com"))
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", got.Name)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "provider", got.UserType)
	assert.Equal(t, DefaultAvatarURL, got.ProfilePhotoURL)
	require.NotNil(t, got.Address)
	assert.Equal(t, "São Paulo", got.Address.City)
	require.NotNil(t, got.Provider)
	assert.Equal(t, entity.DefaultBusinessType, got.Provider.BusinessType)

	assert.Equal(t, int64(1), countRows(t, env.db, &entity.Identity{}))
	assert.Equal(t, int64(1), countRows(t, env.db, &entity.User{}))
	assert.Equal(t, int64(1), countRows(t, env.db, &entity.Address{}))
	assert.Equal(t, int64(1), countRows(t, env.db, &entity.ProviderProfile{}))

	var user entity.User
	require.NoError(t, env.db.First(&user, "id = ?", got.ID).Error)
	assert.Equal(t, "52998224725", user.CPF)

	var logs []entity.AuditLog
	require.NoError(t, env.db.Where("user_id = ?", got.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionUserRegister, logs[0].Action)
}

func TestRegister_ClientHasNoProviderProfile(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, repository.NewProviderProfileRepository())

	got, err := uc.Register(context.Background(), clientRegistration("bia@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "client", got.UserType)
	assert.Nil(t, got.Provider)
	assert.Equal(t, int64(1), countRows(t, env.db, &entity.User{}))
	assert.Equal(t, int64(0), countRows(t, env.db, &entity.ProviderProfile{}))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, repository.NewProviderProfileRepository())
	ctx := context.Background()

	_, err := uc.Register(ctx, clientRegistration("bia@example.com"))
	require.NoError(t, err)

	_, err = uc.Register(ctx, clientRegistration("BIA@example.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, int64(1), countRows(t, env.db, &entity.Identity{}))
	assert.Equal(t, int64(1), countRows(t, env.db, &entity.User{}))
}

func TestRegister_InvalidCPF(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, repository.NewProviderProfileRepository())

	req := clientRegistration("bia@example.com")
	req.Personal.CPF = "111.111.111-11"

	_, err := uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTaxID)
	assert.ErrorIs(t, err, ErrValidation)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "CPF")
	assert.Equal(t, int64(0), countRows(t, env.db, &entity.Identity{}))
}

func TestRegister_ProviderNeedsBusinessData(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, repository.NewProviderProfileRepository())

	req := providerRegistration("ana@example.com")
	req.Personal.Provider = nil

	_, err := uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrInvalidTaxID)
}

func TestRegister_ProfileFailureDeletesIdentity(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, failingProfileRepository{})

	_, err := uc.Register(context.Background(), providerRegistration("ana@example.com"))
	assert.ErrorIs(t, err, ErrRegistrationFailed)

	assert.Equal(t, int64(0), countRows(t, env.db, &entity.Identity{}))
	assert.Equal(t, int64(0), countRows(t, env.db, &entity.User{}))
	assert.Equal(t, int64(0), countRows(t, env.db, &entity.Address{}))
	assert.Equal(t, int64(0), countRows(t, env.db, &entity.AuditLog{}))

	// The email is free again
	uc = newRegistrationUsecase(env, repository.NewProviderProfileRepository())
	_, err = uc.Register(context.Background(), providerRegistration("ana@example.com"))
	require.NoError(t, err)
}

func TestValidatePersonal(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, repository.NewProviderProfileRepository())

	req := providerRegistration("ana@example.com")
	require.NoError(t, uc.ValidatePersonal(context.Background(), &req.Personal))

	req.Personal.Password = "123"
	err := uc.ValidatePersonal(context.Background(), &req.Personal)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "Password")
}

func TestRegistrationFlow_Transitions(t *testing.T) {
	env := newTestEnv(t)
	req := providerRegistration("ana@example.com")

	flow := NewRegistrationFlow(env.validator)
	assert.Equal(t, RegistrationCollectingPersonalData, flow.State())

	assert.ErrorIs(t, flow.SubmitAddress(&req.Address), ErrInvalidTransition)

	bad := req.Personal
	bad.Email = "not-an-email"
	assert.ErrorIs(t, flow.SubmitPersonal(&bad), ErrValidation)
	assert.Equal(t, RegistrationCollectingPersonalData, flow.State())

	require.NoError(t, flow.SubmitPersonal(&req.Personal))
	assert.Equal(t, RegistrationCollectingAddress, flow.State())
	assert.Equal(t, "Ana Souza", flow.Personal().Name)

	require.NoError(t, flow.Back())
	assert.Equal(t, RegistrationCollectingPersonalData, flow.State())
	require.NoError(t, flow.SubmitPersonal(&req.Personal))

	blank := req.Address
	blank.City = " "
	assert.ErrorIs(t, flow.SubmitAddress(&blank), ErrValidation)
	assert.Equal(t, RegistrationCollectingAddress, flow.State())

	require.NoError(t, flow.SubmitAddress(&req.Address))
	assert.Equal(t, RegistrationSubmitting, flow.State())

	require.NoError(t, flow.Fail(ErrRegistrationFailed))
	assert.Equal(t, RegistrationFailed, flow.State())
	assert.ErrorIs(t, flow.Err(), ErrRegistrationFailed)
	assert.ErrorIs(t, flow.Complete(uuid.New()), ErrInvalidTransition)

	require.NoError(t, flow.Retry())
	require.NoError(t, flow.SubmitAddress(&req.Address))
	assert.NoError(t, flow.Err())

	id := uuid.New()
	require.NoError(t, flow.Complete(id))
	assert.Equal(t, RegistrationDone, flow.State())
	assert.Equal(t, id, flow.UserID())
}

func TestRegistrationFlow_ClientProviderDataDropped(t *testing.T) {
	env := newTestEnv(t)
	req := clientRegistration("bia@example.com")

	flow := NewRegistrationFlow(env.validator)
	require.NoError(t, flow.SubmitPersonal(&req.Personal))
	assert.Nil(t, flow.Personal().Provider)
	assert.Equal(t, "52998224725", flow.Personal().CPF)
}

func TestRegister_ClientIgnoresPartialProviderData(t *testing.T) {
	env := newTestEnv(t)
	uc := newRegistrationUsecase(env, repository.NewProviderProfileRepository())

	req := clientRegistration("bia@example.com")
	req.Personal.Provider = &dto.ProviderDataRequest{TradeName: "x"}

	require.NoError(t, uc.ValidatePersonal(context.Background(), &req.Personal))

	got, err := uc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "client", got.UserType)
	assert.Nil(t, got.Provider)
	assert.Equal(t, int64(0), countRows(t, env.db, &entity.ProviderProfile{}))
	assert.Equal(t, "x", req.Personal.Provider.TradeName)
}

func TestRegistrationFlow_ProviderStillNeedsBusinessData(t *testing.T) {
	env := newTestEnv(t)
	req := providerRegistration("ana@example.com")
	req.Personal.Provider = &dto.ProviderDataRequest{TradeName: "x"}

	flow := NewRegistrationFlow(env.validator)
	err := flow.SubmitPersonal(&req.Personal)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "Specialty")
	assert.Equal(t, RegistrationCollectingPersonalData, flow.State())
}
