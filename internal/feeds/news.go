package feeds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Headline is one top story.
type Headline struct {
	Title  string
	Source string
}

// NewsClient fetches top headlines from the NewsAPI.
type NewsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewNewsClient creates a news client. baseURL e.g. "https://newsapi.org".
func NewNewsClient(apiKey, baseURL string, timeout time.Duration) *NewsClient {
	return &NewsClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TopHeadlines returns current top headlines for the given country code.
func (c *NewsClient) TopHeadlines(country string) ([]Headline, error) {
	params := url.Values{}
	params.Set("country", country)
	params.Set("apiKey", c.apiKey)

	resp, err := c.httpClient.Get(c.baseURL + "/v2/top-headlines?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: news request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: news status=%d", ErrUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Articles []struct {
			Title  string `json:"title"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	headlines := make([]Headline, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		headlines = append(headlines, Headline{Title: a.Title, Source: a.Source.Name})
	}
	return headlines, nil
}
