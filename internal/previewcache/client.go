package previewcache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIClient is a Source backed by the server's link-preview endpoint.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates an APIClient for a server base URL such as
// "http://localhost:8080".
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type previewResponse struct {
	Image *string `json:"image"`
}

// GetImage calls GET /api/link-preview?url=<link>. A nil result with a nil
// error means the server resolved the link and found no image.
func (c *APIClient) GetImage(ctx context.Context, link string) (*string, error) {
	endpoint := c.baseURL + "/api/link-preview?url=" + url.QueryEscape(link)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("link-preview endpoint returned HTTP %d", resp.StatusCode)
	}

	var body previewResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Image, nil
}
