package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"belezure-api/internal/infrastructure/storage"
	"belezure-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		size        int
		contentType string
		err         error
	}{
		{"png", "nails.png", 100, "image/png", nil},
		{"upper case jpg", "nails.JPG", 100, "image/jpeg", nil},
		{"webp", "nails.webp", 100, "image/webp", nil},
		{"gif rejected", "nails.gif", 100, "", ErrImageTypeNotAllowed},
		{"empty", "nails.png", 0, "", ErrImageEmpty},
		{"too large", "nails.png", MaxImageSize + 1, "", ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, err := ValidateImage(tt.filename, tt.size)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.contentType, contentType)
		})
	}
}

func TestImageService_UploadAndResolve(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMockBlobStore()
	svc := NewImageService(store, testutil.NewTestLogger())

	ref, err := svc.UploadImage(ctx, "../../etc/nails.png", bytes.Repeat([]byte{1}, 10))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "uploads/"))
	assert.True(t, strings.HasSuffix(ref, "_nails.png"))
	assert.True(t, store.FileExists(ref))

	assert.Contains(t, svc.GetImageURL(ctx, ref, "/fallback.png"), ref)
	assert.Equal(t, "/fallback.png", svc.GetImageURL(ctx, "", "/fallback.png"))
	assert.Equal(t, "/fallback.png", svc.GetImageURL(ctx, "uploads/missing.png", "/fallback.png"))

	_, err = svc.UploadImage(ctx, "nails.bmp", []byte{1})
	assert.ErrorIs(t, err, ErrImageTypeNotAllowed)
}
