package usecase

import (
	"context"
	"testing"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMyAuditLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	provider := testutil.SeedUser(t, env.db, "Ana", entity.UserTypeProvider)
	other := testutil.SeedUser(t, env.db, "Bia", entity.UserTypeProvider)

	for _, slots := range [][]string{{"09:00"}, {"09:00", "10:00"}, {"10:00"}} {
		_, err := env.availability.SetSlots(ctx, provider.ID, "2030-05-01", &dto.SetSlotsRequest{Slots: slots})
		require.NoError(t, err)
	}
	_, err := env.availability.SetSlots(ctx, other.ID, "2030-05-01", &dto.SetSlotsRequest{Slots: []string{"09:00"}})
	require.NoError(t, err)

	uc := NewAuditLogUsecase(env.log, env.audit)

	got, err := uc.ListMyAuditLogs(ctx, provider.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
	for _, l := range got.Logs {
		assert.Equal(t, entity.AuditActionSlotsUpdate, l.Action)
	}

	limited, err := uc.ListMyAuditLogs(ctx, provider.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, limited.Total)
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	provider := testutil.SeedUser(t, env.db, "Ana", entity.UserTypeProvider)
	uc := NewUploadUsecase(env.log, env.images)

	got, err := uc.UploadImage(context.Background(), provider.ID, "unhas.png", []byte("png bytes"))
	require.NoError(t, err)
	assert.True(t, env.blobs.FileExists(got.Key))
	assert.Contains(t, got.URL, got.Key)

	_, err = uc.UploadImage(context.Background(), provider.ID, "notes.txt", []byte("text"))
	assert.Error(t, err)
}
