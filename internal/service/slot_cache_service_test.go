package service

import (
	"context"
	"testing"
	"time"

	"belezure-api/internal/domain/entity"
	"belezure-api/internal/repository"
	"belezure-api/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newSlotCache(t *testing.T) (*SlotCacheService, *entity.User, func(date string, slots ...string)) {
	t.Helper()

	db := testutil.NewTestDB(t)
	_, client := testutil.NewTestRedis(t)
	ledgerRepo := repository.NewAvailabilityLedgerRepository()
	svc := NewSlotCacheService(db, client, testutil.NewTestLogger(), ledgerRepo, time.UTC)
	t.Cleanup(svc.Stop)

	provider := testutil.SeedUser(t, db, "Ana", entity.UserTypeProvider)
	seed := func(date string, slots ...string) {
		ledger := &entity.AvailabilityLedger{ProviderID: provider.ID, Date: date, Slots: datatypes.JSONSlice[string](slots)}
		require.NoError(t, ledgerRepo.Create(context.Background(), db, ledger))
	}
	return svc, provider, seed
}

func TestSlotCache_ClaimWithoutCacheIsMiss(t *testing.T) {
	svc, provider, _ := newSlotCache(t)

	result, err := svc.ClaimSlot(context.Background(), provider.ID, "2030-01-01", "10:00")
	require.NoError(t, err)
	assert.Equal(t, ClaimMiss, result)
}

func TestSlotCache_ClaimAfterSync(t *testing.T) {
	svc, provider, seed := newSlotCache(t)
	ctx := context.Background()
	date := testutil.FutureDate(time.UTC, 3)
	seed(date, "08:30", "10:00")

	require.NoError(t, svc.SyncLedger(ctx, provider.ID, date))

	result, err := svc.ClaimSlot(ctx, provider.ID, date, "10:00")
	require.NoError(t, err)
	assert.Equal(t, ClaimClaimed, result)

	result, err = svc.ClaimSlot(ctx, provider.ID, date, "10:00")
	require.NoError(t, err)
	assert.Equal(t, ClaimTaken, result)

	// Claiming the last slot still leaves the day cached
	result, err = svc.ClaimSlot(ctx, provider.ID, date, "08:30")
	require.NoError(t, err)
	assert.Equal(t, ClaimClaimed, result)

	result, err = svc.ClaimSlot(ctx, provider.ID, date, "08:30")
	require.NoError(t, err)
	assert.Equal(t, ClaimTaken, result)

	require.NoError(t, svc.RestoreSlot(ctx, provider.ID, date, "08:30"))
	result, err = svc.ClaimSlot(ctx, provider.ID, date, "08:30")
	require.NoError(t, err)
	assert.Equal(t, ClaimClaimed, result)
}

func TestSlotCache_RestoreOnUncachedDayIsNoop(t *testing.T) {
	svc, provider, _ := newSlotCache(t)
	ctx := context.Background()

	require.NoError(t, svc.RestoreSlot(ctx, provider.ID, "2030-01-01", "10:00"))

	result, err := svc.ClaimSlot(ctx, provider.ID, "2030-01-01", "11:00")
	require.NoError(t, err)
	assert.Equal(t, ClaimMiss, result)
}

func TestSlotCache_Resync(t *testing.T) {
	svc, provider, seed := newSlotCache(t)
	ctx := context.Background()
	upcoming := testutil.FutureDate(time.UTC, 1)
	past := time.Now().UTC().AddDate(0, 0, -5).Format(entity.DateLayout)
	seed(upcoming, "09:00")
	seed(past, "09:00")

	require.NoError(t, svc.Resync(ctx))

	result, err := svc.ClaimSlot(ctx, provider.ID, upcoming, "09:00")
	require.NoError(t, err)
	assert.Equal(t, ClaimClaimed, result)

	result, err = svc.ClaimSlot(ctx, provider.ID, past, "09:00")
	require.NoError(t, err)
	assert.Equal(t, ClaimMiss, result)
}

func TestSlotCache_CalculateTTL(t *testing.T) {
	svc := &SlotCacheService{loc: time.UTC}

	assert.Equal(t, time.Minute, svc.calculateTTL("2001-01-01"))
	assert.Equal(t, time.Minute, svc.calculateTTL("garbage"))

	ttl := svc.calculateTTL(testutil.FutureDate(time.UTC, 0))
	assert.Greater(t, ttl, 24*time.Hour)
	assert.LessOrEqual(t, ttl, 48*time.Hour)
}

func TestOpenSlotsKey(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-1b2c-4d5e-8f90-123456789abc")
	assert.Equal(t, "ledger:open:6f1c2a8e-1b2c-4d5e-8f90-123456789abc:2025-03-10", OpenSlotsKey(id, "2025-03-10"))
}
