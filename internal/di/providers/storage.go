package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
)

// ImageStorages groups the item photo storage services.
type ImageStorages struct {
	Photos     *images.Storage
	Thumbnails *images.Storage
}

// ProvideImageStorages provides the photo storage services.
func ProvideImageStorages(i do.Injector) (*ImageStorages, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	photos, err := images.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, fmt.Errorf("photo storage: %w", err)
	}

	thumbnails, err := images.NewStorageWithSubdir(cfg.Data.BasePath, "photos/thumbs")
	if err != nil {
		return nil, fmt.Errorf("thumbnail storage: %w", err)
	}

	log.Info("Image storages initialized")

	return &ImageStorages{
		Photos:     photos,
		Thumbnails: thumbnails,
	}, nil
}

// ProvideImageProcessor provides the image processor for item photos.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storages := do.MustInvoke[*ImageStorages](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storages.Photos, storages.Thumbnails, log.Logger), nil
}
