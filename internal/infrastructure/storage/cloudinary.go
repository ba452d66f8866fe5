package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"belezure-api/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryBlobStore uses the Cloudinary public id as ref
type CloudinaryBlobStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryBlobStore(cfg config.StorageConfig) (*CloudinaryBlobStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}

	return &CloudinaryBlobStore{cld: cld, folder: cfg.CloudinaryFolder}, nil
}

func (c *CloudinaryBlobStore) Upload(ctx context.Context, path, contentType string, content []byte) (string, error) {
	publicID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(content), uploader.UploadParams{
		PublicID: publicID,
		Folder:   c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", resp.Error.Message)
	}

	return resp.PublicID, nil
}

func (c *CloudinaryBlobStore) GetURL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	image, err := c.cld.Image(ref)
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary asset: %w", err)
	}
	image.Config.URL.Secure = true

	url, err := image.String()
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary URL: %w", err)
	}
	return url, nil
}

func (c *CloudinaryBlobStore) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}

	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: ref}); err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	return nil
}
