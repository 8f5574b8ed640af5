// Package di provides dependency injection configuration for the Wardrobe server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/di/providers"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorages)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Outbound clients
	do.Provide(injector, providers.ProvideWeatherClient)
	do.Provide(injector, providers.ProvideClassifyClient)

	// Business services
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideMemberService)
	do.Provide(injector, providers.ProvideItemService)
	do.Provide(injector, providers.ProvideLocationService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideWardrobeService)
	do.Provide(injector, providers.ProvideOutfitService)
	do.Provide(injector, providers.ProvideBootstrap)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap triggers lazy initialization of all core services and returns
// once the HTTP server is listening.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ImageStorages](injector)
	_ = do.MustInvoke[*images.Processor](injector)

	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.MemberService](injector)
	_ = do.MustInvoke[*service.ItemService](injector)
	_ = do.MustInvoke[*service.LocationService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)
	_ = do.MustInvoke[*providers.WardrobeServiceHandle](injector)
	_ = do.MustInvoke[*service.OutfitService](injector)
	_ = do.MustInvoke[*providers.Bootstrap](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
