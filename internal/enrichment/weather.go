package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"my-calendar/internal/models"
)

// Forecast is the nearest slot of a 7timer civil forecast, already formatted
// for display.
type Forecast struct {
	WindSpeed   string
	Weather     string
	Humidity    string
	Temperature string
}

func (f *Forecast) apply(m *models.Metadata) {
	set := func(dst **string, v string) {
		if v != "" {
			value := v
			*dst = &value
		}
	}
	set(&m.WindSpeed, f.WindSpeed)
	set(&m.Weather, f.Weather)
	set(&m.Humidity, f.Humidity)
	set(&m.Temperature, f.Temperature)
}

type weatherResponse struct {
	DataSeries []struct {
		Weather string          `json:"weather"`
		RH2m    json.RawMessage `json:"rh2m"`
		Temp2m  json.RawMessage `json:"temp2m"`
		Wind10m struct {
			Direction string          `json:"direction"`
			Speed     json.RawMessage `json:"speed"`
		} `json:"wind10m"`
	} `json:"dataseries"`
}

type WeatherClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewWeatherClient(baseURL string, httpClient *http.Client) *WeatherClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WeatherClient{BaseURL: baseURL, HTTP: httpClient}
}

func (c *WeatherClient) Forecast(ctx context.Context, at Coordinates) (*Forecast, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid weather API URL: %w", err)
	}
	q := u.Query()
	q.Set("lat", at.Lat)
	q.Set("lng", at.Lng)
	q.Set("ac", "1")
	q.Set("unit", "metric")
	q.Set("output", "json")
	q.Set("product", "two")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned %s", resp.Status)
	}

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}
	if len(body.DataSeries) == 0 {
		return nil, errors.New("forecast has no data series")
	}

	slot := body.DataSeries[0]
	forecast := &Forecast{
		Weather:  DescribeWeather(slot.Weather),
		Humidity: rawText(slot.RH2m),
	}
	if speed := rawText(slot.Wind10m.Speed); speed != "" {
		forecast.WindSpeed = speed + " KM"
	}
	if temp := rawText(slot.Temp2m); temp != "" {
		forecast.Temperature = temp + "C"
	}
	return forecast, nil
}

// rawText renders a JSON scalar as plain text; strings lose their quotes.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

var weatherDescriptions = map[string]string{
	"clear":     "Clear sky",
	"pcloudy":   "Partly cloudy",
	"mcloudy":   "Mostly cloudy",
	"cloudy":    "Cloudy",
	"humid":     "Foggy",
	"lightrain": "Light rain or showers",
	"oshower":   "Occasional showers",
	"ishower":   "Isolated showers",
	"lightsnow": "Light or occasional snow",
	"rain":      "Rain",
	"snow":      "Snow",
	"rainsnow":  "Mixed rain and snow",
	"ts":        "Thunderstorm possible",
	"tsrain":    "Thunderstorm",
}

// DescribeWeather turns a civil weather code such as "pcloudyday" into text.
// Unknown codes are returned unchanged.
func DescribeWeather(code string) string {
	base, period := code, ""
	switch {
	case strings.HasSuffix(code, "day"):
		base, period = strings.TrimSuffix(code, "day"), "day"
	case strings.HasSuffix(code, "night"):
		base, period = strings.TrimSuffix(code, "night"), "night"
	}
	desc, ok := weatherDescriptions[base]
	if !ok {
		return code
	}
	if period == "" {
		return desc
	}
	return fmt.Sprintf("%s (%s)", desc, period)
}
