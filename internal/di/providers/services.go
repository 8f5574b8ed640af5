package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/classify"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/recommend"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
	"github.com/wardrobeapp/wardrobe-server/internal/weather"
)

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideMemberService provides the household member service.
func ProvideMemberService(i do.Injector) (*service.MemberService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMemberService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideItemService provides the clothing item service.
func ProvideItemService(i do.Injector) (*service.ItemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tagService := do.MustInvoke[*service.TagService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	classifier := do.MustInvoke[*classify.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewItemService(storeHandle.Store, tagService, sseHandle.Manager, processor, classifier, log.Logger), nil
}

// ProvideLocationService provides the storage location service.
func ProvideLocationService(i do.Injector) (*service.LocationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLocationService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideSettingsService provides the settings and admin mode service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// WardrobeServiceHandle wraps the wardrobe service so live view sessions
// are retired during shutdown.
type WardrobeServiceHandle struct {
	*service.WardrobeService
}

// Shutdown implements do.Shutdownable.
func (h *WardrobeServiceHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideWardrobeService provides the reactive wardrobe view service.
func ProvideWardrobeService(i do.Injector) (*WardrobeServiceHandle, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &WardrobeServiceHandle{
		WardrobeService: service.NewWardrobeService(storeHandle.Store, sseHandle.Manager, log.Logger),
	}, nil
}

// ProvideOutfitService provides the outfit recommendation service.
func ProvideOutfitService(i do.Injector) (*service.OutfitService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	weatherClient := do.MustInvoke[*weather.Client](i)
	itemService := do.MustInvoke[*service.ItemService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewOutfitService(storeHandle.Store, weatherClient, recommend.New(), itemService, log.Logger), nil
}

// Bootstrap seeds the database with the protected default tags.
type Bootstrap struct{}

// ProvideBootstrap ensures the default tags exist before the server accepts traffic.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	tagService := do.MustInvoke[*service.TagService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := tagService.EnsureDefaultTags(context.Background()); err != nil {
		return nil, err
	}

	log.Info("Default tags ensured")
	return &Bootstrap{}, nil
}
