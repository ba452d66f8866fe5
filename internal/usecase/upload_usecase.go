package usecase

import (
	"context"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UploadUsecase interface {
	UploadImage(ctx context.Context, userID uuid.UUID, filename string, content []byte) (*dto.UploadResponse, error)
}

type uploadUsecase struct {
	log          *logrus.Logger
	imageService service.ImageService
}

func NewUploadUsecase(log *logrus.Logger, imageService service.ImageService) UploadUsecase {
	return &uploadUsecase{
		log:          log,
		imageService: imageService,
	}
}

// UploadImage stores the image and returns the key to submit with a form plus a display URL.
func (u *uploadUsecase) UploadImage(ctx context.Context, userID uuid.UUID, filename string, content []byte) (*dto.UploadResponse, error) {
	key, err := u.imageService.UploadImage(ctx, filename, content)
	if err != nil {
		return nil, asTransient(err)
	}

	u.log.Infof("Image uploaded: user=%s, key=%s", userID, key)
	return &dto.UploadResponse{
		Key: key,
		URL: u.imageService.GetImageURL(ctx, key, ""),
	}, nil
}
