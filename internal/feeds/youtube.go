package feeds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// VideoClient searches videos via the YouTube Data API.
type VideoClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxResults int
}

// NewVideoClient creates a video search client. baseURL e.g.
// "https://www.googleapis.com".
func NewVideoClient(apiKey, baseURL string, timeout time.Duration) *VideoClient {
	return &VideoClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxResults: 5,
	}
}

// Search returns watch URLs for videos matching the query. Non-video results
// (channels, playlists) are filtered out.
func (c *VideoClient) Search(query string) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("key", c.apiKey)

	resp, err := c.httpClient.Get(c.baseURL + "/youtube/v3/search?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: video search request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: video search status=%d", ErrUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Items []struct {
			ID struct {
				Kind    string `json:"kind"`
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse video search response: %w", err)
	}

	var links []string
	for _, item := range parsed.Items {
		if item.ID.Kind != "youtube#video" {
			continue
		}
		links = append(links, "https://www.youtube.com/watch?v="+item.ID.VideoID)
	}
	return links, nil
}
