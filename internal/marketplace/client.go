// Package marketplace is the thin REST boundary to the job-marketplace
// backend. The only call this client makes itself is feed hydration; the
// remaining surfaces are collaborator interfaces owned elsewhere.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/careerhub/pulse/internal/core/feed"
)

const requestTimeout = 15 * time.Second

// Client talks to the marketplace REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a REST client for the given base URL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// notificationsResponse is the hydration payload shape.
type notificationsResponse struct {
	Notifications []feed.Notification `json:"notifications"`
}

// Notifications fetches the user's current notification list, newest
// first, for feed hydration on startup.
func (c *Client) Notifications(ctx context.Context, userID string) ([]feed.Notification, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s/notifications", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch notifications: unexpected status %d", resp.StatusCode)
	}

	var body notificationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	return body.Notifications, nil
}
