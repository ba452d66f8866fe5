// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"testing"
	"time"

	"belezure-api/internal/domain/entity"
	"belezure-api/internal/infrastructure/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewTestDB returns a private in-memory database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps the database alive for the single pooled connection
	// while isolating it from other tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteConnection(dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewTestRedis starts a miniredis server bound to the test lifetime.
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// NewTestLogger discards output.
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// FutureDate returns a calendar day n days from now in loc.
func FutureDate(loc *time.Location, n int) string {
	return time.Now().In(loc).AddDate(0, 0, n).Format(entity.DateLayout)
}

// SeedCategory inserts a category.
func SeedCategory(t *testing.T, db *gorm.DB, name string) *entity.Category {
	t.Helper()

	category := &entity.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

// SeedUser inserts a user with an address; providers also get a profile.
func SeedUser(t *testing.T, db *gorm.DB, name string, userType entity.UserType) *entity.User {
	t.Helper()

	address := &entity.Address{
		PostalCode: "01310-100",
		City:       "São Paulo",
		State:      "SP",
		District:   "Bela Vista",
		Street:     "Av. Paulista",
		Number:     "1000",
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}

	user := &entity.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()),
		Phone:     "11999999999",
		CPF:       "52998224725",
		UserType:  userType,
		AddressID: &address.ID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	if userType == entity.UserTypeProvider {
		profile := &entity.ProviderProfile{
			UserID:       user.ID,
			BusinessType: entity.DefaultBusinessType,
			TradeName:    name + " Studio",
			Specialty:    "Manicure",
			Field:        "Beleza",
		}
		if err := db.Create(profile).Error; err != nil {
			t.Fatalf("failed to seed provider profile: %v", err)
		}
	}
	return user
}

// SeedService inserts an active, available service.
func SeedService(t *testing.T, db *gorm.DB, providerID uuid.UUID, categoryID int, description string) *entity.Service {
	t.Helper()

	service := &entity.Service{
		ProviderID:  providerID,
		CategoryID:  categoryID,
		Description: description,
		Price:       decimal.NewFromInt(50),
		IsActive:    true,
		IsAvailable: true,
	}
	if err := db.Create(service).Error; err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}
	return service
}
