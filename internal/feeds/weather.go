package feeds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WeatherReport is the current weather at a resolved location.
type WeatherReport struct {
	Name        string
	TempC       float64
	Description string
	HumidityPct int
	WindSpeed   float64
}

// WeatherClient fetches current conditions from OpenWeatherMap.
type WeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherClient creates a weather client. baseURL e.g.
// "https://api.openweathermap.org".
func NewWeatherClient(apiKey, baseURL string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Current returns the weather for a free-text location. An unknown location
// yields ErrNotFound.
func (c *WeatherClient) Current(location string) (WeatherReport, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	resp, err := c.httpClient.Get(c.baseURL + "/data/2.5/weather?" + params.Encode())
	if err != nil {
		return WeatherReport{}, fmt.Errorf("%w: weather request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return WeatherReport{}, fmt.Errorf("%w: location %q", ErrNotFound, location)
	}
	if resp.StatusCode != http.StatusOK {
		return WeatherReport{}, fmt.Errorf("%w: weather status=%d", ErrUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return WeatherReport{}, fmt.Errorf("failed to parse weather response: %w", err)
	}

	report := WeatherReport{
		Name:        parsed.Name,
		TempC:       parsed.Main.Temp,
		HumidityPct: parsed.Main.Humidity,
		WindSpeed:   parsed.Wind.Speed,
	}
	if len(parsed.Weather) > 0 {
		report.Description = parsed.Weather[0].Description
	}
	return report, nil
}
