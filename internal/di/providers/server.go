package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/api"
	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	memberService := do.MustInvoke[*service.MemberService](i)
	itemService := do.MustInvoke[*service.ItemService](i)
	tagService := do.MustInvoke[*service.TagService](i)
	locationService := do.MustInvoke[*service.LocationService](i)
	settingsService := do.MustInvoke[*service.SettingsService](i)
	wardrobeHandle := do.MustInvoke[*WardrobeServiceHandle](i)
	outfitService := do.MustInvoke[*service.OutfitService](i)

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	handler := api.NewServer(api.Services{
		Members:   memberService,
		Items:     itemService,
		Tags:      tagService,
		Locations: locationService,
		Settings:  settingsService,
		Wardrobe:  wardrobeHandle.WardrobeService,
		Outfit:    outfitService,
	}, sseHandler, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr, "name", cfg.Server.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
