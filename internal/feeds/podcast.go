package feeds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PodcastClient searches podcast episodes via the Listen Notes API.
type PodcastClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPodcastClient creates a podcast search client. baseURL e.g.
// "https://listen-api.listennotes.com".
func NewPodcastClient(apiKey, baseURL string, timeout time.Duration) *PodcastClient {
	return &PodcastClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search returns episode links matching the query.
func (c *PodcastClient) Search(query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort_by_date", "0")
	params.Set("language", "English")

	endpoint := c.baseURL + "/api/v2/search?" + params.Encode()
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create podcast request: %w", err)
	}
	req.Header.Set("X-ListenAPI-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: podcast request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: podcast status=%d", ErrUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			Link string `json:"link"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse podcast response: %w", err)
	}

	links := make([]string, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		links = append(links, r.Link)
	}
	return links, nil
}
