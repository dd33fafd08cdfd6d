package feeds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DictionaryClient fetches definitions from the Oxford Dictionaries API.
type DictionaryClient struct {
	appID      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDictionaryClient creates a dictionary client. baseURL e.g.
// "https://od-api.oxforddictionaries.com".
func NewDictionaryClient(appID, apiKey, baseURL string, timeout time.Duration) *DictionaryClient {
	return &DictionaryClient{
		appID:   appID,
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Define returns the first definition of word, or ErrNotFound when the
// dictionary has no entry for it.
func (c *DictionaryClient) Define(word string) (string, error) {
	endpoint := c.baseURL + "/api/v2/entries/en-gb/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create dictionary request: %w", err)
	}
	req.Header.Set("app_id", c.appID)
	req.Header.Set("app_key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: dictionary request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: word %q", ErrNotFound, word)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: dictionary status=%d", ErrUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			LexicalEntries []struct {
				Entries []struct {
					Senses []struct {
						Definitions []string `json:"definitions"`
					} `json:"senses"`
				} `json:"entries"`
			} `json:"lexicalEntries"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse dictionary response: %w", err)
	}

	for _, result := range parsed.Results {
		for _, lexical := range result.LexicalEntries {
			for _, entry := range lexical.Entries {
				for _, sense := range entry.Senses {
					if len(sense.Definitions) > 0 {
						return sense.Definitions[0], nil
					}
				}
			}
		}
	}
	return "", fmt.Errorf("%w: word %q", ErrNotFound, word)
}
