package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ariavoice/aria/internal/httpc"
)

// DefaultWeatherBaseURL is the OpenWeatherMap current weather endpoint.
const DefaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherReport is the current weather for one city.
type WeatherReport struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	Icon        string  `json:"icon"`
}

// WeatherClient fetches current weather from OpenWeatherMap.
type WeatherClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewWeatherClient creates a weather client. An empty baseURL uses the
// OpenWeatherMap endpoint.
func NewWeatherClient(apiKey, baseURL string) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultWeatherBaseURL
	}
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    httpc.Client,
	}
}

// openWeatherResponse mirrors the fields we read from the upstream payload.
type openWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Fetch returns the current weather for a city.
func (c *WeatherClient) Fetch(ctx context.Context, city string) (*WeatherReport, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	var raw openWeatherResponse
	if err := decode(resp, &raw); err != nil {
		return nil, err
	}

	report := &WeatherReport{
		City:        raw.Name,
		Country:     raw.Sys.Country,
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
	}
	if len(raw.Weather) > 0 {
		report.Description = raw.Weather[0].Description
		report.Icon = raw.Weather[0].Icon
	}
	return report, nil
}
