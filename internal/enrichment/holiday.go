package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"my-calendar/internal/logger"
)

const holidayDateLayout = "2006-01-02"

// Holiday is one entry of the public holiday API response.
type Holiday struct {
	Date        string `json:"date"`
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// HolidayCache stores holiday lists per country and year. A miss returns
// found == false with a nil error.
type HolidayCache interface {
	Get(ctx context.Context, country string, year int) (holidays []Holiday, found bool, err error)
	Set(ctx context.Context, country string, year int, holidays []Holiday) error
}

// HolidayClient queries {BaseURL}/{year}/{country}.
type HolidayClient struct {
	BaseURL string
	Country string
	HTTP    *http.Client
	Cache   HolidayCache
	Logger  *logger.Logger
}

func NewHolidayClient(baseURL, country string, httpClient *http.Client, cache HolidayCache, log *logger.Logger) *HolidayClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logger.NewLoggerWithWriter(io.Discard)
	}
	return &HolidayClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Country: country,
		HTTP:    httpClient,
		Cache:   cache,
		Logger:  log,
	}
}

// Holidays returns the holiday list for year, from the cache when possible.
func (c *HolidayClient) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	if c.Cache != nil {
		cached, found, err := c.Cache.Get(ctx, c.Country, year)
		if err != nil {
			c.Logger.Warn("REDIS", fmt.Sprintf("Holiday cache read failed: %v", err))
		} else if found {
			return cached, nil
		}
	}

	holidays, err := c.fetch(ctx, year)
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, c.Country, year, holidays); err != nil {
			c.Logger.Warn("REDIS", fmt.Sprintf("Holiday cache write failed: %v", err))
		}
	}
	return holidays, nil
}

// HolidayOn returns the name of the holiday falling on date, or nil.
func (c *HolidayClient) HolidayOn(ctx context.Context, year int, date time.Time) (*string, error) {
	holidays, err := c.Holidays(ctx, year)
	if err != nil {
		return nil, err
	}
	day := date.Format(holidayDateLayout)
	for _, h := range holidays {
		if h.Date == day {
			name := h.Name
			return &name, nil
		}
	}
	return nil, nil
}

func (c *HolidayClient) fetch(ctx context.Context, year int) ([]Holiday, error) {
	endpoint := fmt.Sprintf("%s/%d/%s", c.BaseURL, year, c.Country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned %s", resp.Status)
	}

	var holidays []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}
	c.Logger.Debug("ENRICH", fmt.Sprintf("Fetched %d holidays for %s %d", len(holidays), c.Country, year))
	return holidays, nil
}
