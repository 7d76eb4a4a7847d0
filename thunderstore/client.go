package thunderstore

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"thunderstore-mod-browser/config"
)

const defaultTimeout = 60 * time.Second

// Client fetches the package list from the Thunderstore API.
type Client struct {
	FeedURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new Thunderstore API client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.FeedURL == "" {
		return nil, fmt.Errorf("FEED_URL is not configured")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}

	return &Client{
		FeedURL:   cfg.FeedURL,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

// FetchPackageList downloads the full package list and returns the raw body,
// so the caller can persist the document verbatim before decoding it.
func (c *Client) FetchPackageList() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Try to read body for more error info, but don't fail if it's unreadable
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feed request failed: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed response: %w", err)
	}
	return body, nil
}
