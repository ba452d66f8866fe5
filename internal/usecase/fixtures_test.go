package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"belezure-api/internal/domain/entity"
	"belezure-api/internal/infrastructure/storage"
	"belezure-api/internal/repository"
	"belezure-api/internal/service"
	"belezure-api/internal/testutil"
	"belezure-api/pkg/session"
	"belezure-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type sentMail struct {
	to      string
	subject string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testEnv struct {
	db           *gorm.DB
	log          *logrus.Logger
	redis        *redis.Client
	blobs        *storage.MockBlobStore
	mailer       *recordingMailer
	cache        *service.SlotCacheService
	audit        service.AuditService
	images       service.ImageService
	identity     IdentityGateway
	validator    *validator.CustomValidator
	availability AvailabilityUsecase
	booking      BookingUsecase
	catalog      CatalogUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	_, redisClient := testutil.NewTestRedis(t)
	log := testutil.NewTestLogger()

	ledgerRepo := repository.NewAvailabilityLedgerRepository()
	bookingRepo := repository.NewBookingRepository()
	userRepo := repository.NewUserRepository()
	serviceRepo := repository.NewServiceRepository()

	blobs := storage.NewMockBlobStore()
	mailer := &recordingMailer{}
	cache := service.NewSlotCacheService(db, redisClient, log, ledgerRepo, time.UTC)
	t.Cleanup(cache.Stop)

	audit := service.NewAuditService(db, log, repository.NewAuditLogRepository())
	images := service.NewImageService(blobs, log)
	notifications := service.NewNotificationService(db, log, mailer, bookingRepo, userRepo)

	availability := NewAvailabilityUsecase(db, log, ledgerRepo, bookingRepo, audit, cache)

	return &testEnv{
		db:           db,
		log:          log,
		redis:        redisClient,
		blobs:        blobs,
		mailer:       mailer,
		cache:        cache,
		audit:        audit,
		images:       images,
		identity:     &identityGateway{db: db, log: log, identityRepo: repository.NewIdentityRepository(), cost: 4},
		validator:    validator.NewValidator(),
		availability: availability,
		booking:      NewBookingUsecase(db, log, time.UTC, availability, cache, serviceRepo, userRepo, bookingRepo, notifications),
		catalog: NewCatalogUsecase(db, log, serviceRepo, repository.NewCategoryRepository(), repository.NewProviderProfileRepository(),
			userRepo, repository.NewAddressRepository(), repository.NewReviewRepository(), audit, images),
	}
}

func clientSession(u *entity.User) session.Session {
	return session.Session{UserID: u.ID, Email: u.Email, UserType: session.UserTypeClient}
}

func providerSession(u *entity.User) session.Session {
	return session.Session{UserID: u.ID, Email: u.Email, UserType: session.UserTypeProvider}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

var errInjected = errors.New("injected failure")
