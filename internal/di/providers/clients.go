package providers

import (
	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/classify"
	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/weather"
)

// ProvideWeatherClient provides the Open-Meteo forecast client.
func ProvideWeatherClient(i do.Injector) (*weather.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return weather.NewClient(log.Logger), nil
}

// ProvideClassifyClient provides the photo classification client.
// Classification stays disabled when no endpoint is configured.
func ProvideClassifyClient(i do.Injector) (*classify.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := classify.NewClient(cfg.Classify.Endpoint, log.Logger)
	if client.Enabled() {
		log.Info("Photo classification enabled", "endpoint", cfg.Classify.Endpoint)
	} else {
		log.Info("Photo classification disabled")
	}
	return client, nil
}
