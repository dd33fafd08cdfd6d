package feeds

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Pages larger than this are cut off at the transport; replies truncate far
// below it anyway.
const maxPageBytes = 4 << 20

// PageClient fetches arbitrary web pages for the scrape command.
type PageClient struct {
	httpClient *http.Client
}

// NewPageClient creates a page fetcher.
func NewPageClient(timeout time.Duration) *PageClient {
	return &PageClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the raw page body.
func (c *PageClient) Fetch(pageURL string) ([]byte, error) {
	resp, err := c.httpClient.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: page request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: page status=%d", ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}
	return data, nil
}
