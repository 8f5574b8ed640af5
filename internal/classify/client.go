// Package classify suggests item attributes from a photo via an external
// vision endpoint. The endpoint is optional; when unconfigured, or on any
// failure, callers receive no suggestion rather than an error.
package classify

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// Suggestion holds attributes guessed from an item photo. All fields are
// pre-validated against the taxonomy before being returned.
type Suggestion struct {
	Category   domain.Category `json:"category"`
	Season     domain.Season   `json:"season"`
	Color      domain.Color    `json:"color"`
	Warmth     int             `json:"warmth"`
	Waterproof bool            `json:"waterproof"`
}

// Client posts item photos to a vision endpoint for attribute suggestions.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	endpoint    string
}

// NewClient creates a classification client. An empty endpoint disables
// classification entirely.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(2*time.Second), 2),
		logger:      logger,
		endpoint:    endpoint,
	}
}

// Enabled reports whether a vision endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// Classify sends the photo to the vision endpoint and returns a suggestion.
// Returns nil when classification is disabled, the endpoint fails, or the
// response does not fit the taxonomy. Errors never propagate to callers.
func (c *Client) Classify(ctx context.Context, image []byte, contentType string) *Suggestion {
	if !c.Enabled() || len(image) == 0 {
		return nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.logger.Debug("classification rate limit wait aborted", slog.String("error", err.Error()))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		c.logger.Warn("failed to build classification request", slog.String("error", err.Error()))
		return nil
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("classification request failed", slog.String("error", err.Error()))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("classification endpoint error", slog.Int("status", resp.StatusCode))
		return nil
	}

	var suggestion Suggestion
	if err := json.UnmarshalRead(resp.Body, &suggestion); err != nil {
		c.logger.Warn("failed to parse classification response", slog.String("error", err.Error()))
		return nil
	}

	if !suggestion.Category.Valid() || !suggestion.Season.Valid() || !suggestion.Color.Valid() {
		c.logger.Warn("classification response outside taxonomy",
			slog.String("category", string(suggestion.Category)),
			slog.String("season", string(suggestion.Season)))
		return nil
	}
	if suggestion.Warmth < domain.WarmthMin || suggestion.Warmth > domain.WarmthMax {
		c.logger.Warn("classification warmth out of range", slog.Int("warmth", suggestion.Warmth))
		return nil
	}

	return &suggestion
}
