// Package weather fetches current conditions from the Open-Meteo API.
package weather

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Client provides access to the Open-Meteo forecast API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// NewClient creates a new Open-Meteo client.
// Open-Meteo allows generous free usage; one request per second with a small
// burst is far below their limits while still protecting against UI-driven
// request storms.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		baseURL:     defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client pointed at a custom endpoint.
// Used in tests against an httptest server.
func NewClientWithBaseURL(baseURL string, logger *slog.Logger) *Client {
	c := NewClient(logger)
	c.baseURL = baseURL
	return c
}

// currentResponse mirrors Open-Meteo's "current" block.
type currentResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Apparent    float64 `json:"apparent_temperature"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		UVIndex     float64 `json:"uv_index"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Current fetches current conditions for the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*domain.Weather, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("current", "temperature_2m,apparent_temperature,wind_speed_10m,uv_index,weather_code")

	requestURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("fetching weather",
		slog.Float64("lat", lat),
		slog.Float64("lon", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather request failed: status %d", resp.StatusCode)
	}

	var decoded currentResponse
	if err := json.UnmarshalRead(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	weather := &domain.Weather{
		Temperature: decoded.Current.Temperature,
		Apparent:    decoded.Current.Apparent,
		WindSpeed:   decoded.Current.WindSpeed,
		UVIndex:     decoded.Current.UVIndex,
		Code:        decoded.Current.WeatherCode,
		Icon:        domain.IconForCode(decoded.Current.WeatherCode),
	}

	c.logger.Debug("weather fetched",
		slog.Float64("apparent", weather.Apparent),
		slog.Int("code", weather.Code))

	return weather, nil
}
