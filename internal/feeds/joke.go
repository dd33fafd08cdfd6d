package feeds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// JokeClient fetches random jokes from JokeAPI.
type JokeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewJokeClient creates a joke client. baseURL e.g. "https://v2.jokeapi.dev".
func NewJokeClient(baseURL string, timeout time.Duration) *JokeClient {
	return &JokeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Random returns one joke. Two-part jokes are joined as "setup ... delivery".
func (c *JokeClient) Random() (string, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/joke/Any")
	if err != nil {
		return "", fmt.Errorf("%w: joke request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: joke status=%d", ErrUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Type     string `json:"type"`
		Joke     string `json:"joke"`
		Setup    string `json:"setup"`
		Delivery string `json:"delivery"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse joke response: %w", err)
	}

	if parsed.Type == "single" {
		return parsed.Joke, nil
	}
	return fmt.Sprintf("%s ... %s", parsed.Setup, parsed.Delivery), nil
}
