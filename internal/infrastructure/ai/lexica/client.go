// Package lexica provides the free image search provider tried before
// paid generation in the image pipeline.
package lexica

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/ports/outbound"
)

// Client searches the Lexica gallery for an image matching a query.
type Client struct {
	baseURL      string
	minDimension int
	client       *http.Client
	logger       *zap.Logger
}

// NewClient creates a Lexica client. Results smaller than minDimension in
// either dimension are discarded.
func NewClient(baseURL string, minDimension int, logger *zap.Logger) *Client {
	if minDimension <= 0 {
		minDimension = 512
	}
	return &Client{
		baseURL:      baseURL,
		minDimension: minDimension,
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

type searchResponse struct {
	Images []struct {
		Src    string `json:"src"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"images"`
}

// Search returns the first result meeting the minimum dimensions, or an
// error when nothing usable comes back.
func (c *Client) Search(ctx context.Context, query string) (*outbound.ImageResult, error) {
	reqURL := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error %d: %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	for _, img := range searchResp.Images {
		if img.Src == "" {
			continue
		}
		if img.Width < c.minDimension || img.Height < c.minDimension {
			continue
		}
		return &outbound.ImageResult{URL: img.Src, Width: img.Width, Height: img.Height}, nil
	}

	c.logger.Debug("no usable search result", zap.String("query", query),
		zap.Int("candidates", len(searchResp.Images)))
	return nil, fmt.Errorf("no image of at least %dx%d found", c.minDimension, c.minDimension)
}
