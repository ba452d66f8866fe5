package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"belezure-api/internal/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

const (
	// MaxImageSize is 10MB in bytes
	MaxImageSize = 10 * 1024 * 1024
)

var (
	ErrImageTooLarge       = errors.New("image exceeds the 10MB limit")
	ErrImageEmpty          = errors.New("image is empty")
	ErrImageTypeNotAllowed = errors.New("image must be .png, .jpg, .jpeg or .webp")
)

var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// ImageService validates images and stores them in the blob store
type ImageService interface {
	UploadImage(ctx context.Context, filename string, content []byte) (string, error)
	// GetImageURL returns fallback when ref is empty or cannot be resolved
	GetImageURL(ctx context.Context, ref, fallback string) string
}

type imageService struct {
	store storage.BlobStore
	log   *logrus.Logger
}

func NewImageService(store storage.BlobStore, log *logrus.Logger) ImageService {
	return &imageService{store: store, log: log}
}

func ValidateImage(filename string, size int) (string, error) {
	if size == 0 {
		return "", ErrImageEmpty
	}
	if size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	contentType, ok := allowedImageTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", ErrImageTypeNotAllowed
	}
	return contentType, nil
}

func (s *imageService) UploadImage(ctx context.Context, filename string, content []byte) (string, error) {
	contentType, err := ValidateImage(filename, len(content))
	if err != nil {
		return "", err
	}

	// Format: uploads/{timestamp}_{filename}
	path := fmt.Sprintf("uploads/%d_%s", time.Now().Unix(), filepath.Base(filename))

	ref, err := s.store.Upload(ctx, path, contentType, content)
	if err != nil {
		s.log.Warnf("Failed to upload image %s: %+v", path, err)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return ref, nil
}

func (s *imageService) GetImageURL(ctx context.Context, ref, fallback string) string {
	if ref == "" {
		return fallback
	}

	url, err := s.store.GetURL(ctx, ref)
	if err != nil || url == "" {
		s.log.Warnf("Failed to resolve image %s: %+v", ref, err)
		return fallback
	}
	return url
}
