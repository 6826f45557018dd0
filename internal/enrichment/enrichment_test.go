package enrichment_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my-calendar/internal/enrichment"
)

type stubHolidays struct {
	name *string
	err  error
	year int
}

func (s *stubHolidays) HolidayOn(ctx context.Context, year int, date time.Time) (*string, error) {
	s.year = year
	return s.name, s.err
}

type stubWeather struct {
	forecast *enrichment.Forecast
	err      error
	calls    int
	at       enrichment.Coordinates
}

func (s *stubWeather) Forecast(ctx context.Context, at enrichment.Coordinates) (*enrichment.Forecast, error) {
	s.calls++
	s.at = at
	return s.forecast, s.err
}

func newEnrichmentService(t *testing.T, holidays enrichment.HolidayLookup, weather enrichment.ForecastLookup, holidayYear int) *enrichment.Service {
	t.Helper()
	table, err := enrichment.ParseGeoTable(strings.NewReader(geoCSV))
	require.NoError(t, err)

	svc := enrichment.NewService(holidays, weather, table, holidayYear, nil)
	// Wednesday 20 December 2023
	svc.Now = func() time.Time { return time.Date(2023, 12, 20, 16, 45, 0, 0, time.Local) }
	return svc
}

func day(d int, m time.Month, y int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestEnrichWithinForecastWindow(t *testing.T) {
	christmas := "Christmas Day"
	holidays := &stubHolidays{name: &christmas}
	weather := &stubWeather{forecast: &enrichment.Forecast{
		WindSpeed: "3 KM", Weather: "Clear sky (day)", Humidity: "65%", Temperature: "24C",
	}}
	svc := newEnrichmentService(t, holidays, weather, 2023)

	metadata := svc.Enrich(context.Background(), day(25, time.December, 2023), "Sydney", "NSW")

	require.NotNil(t, metadata.Holiday)
	assert.Equal(t, "Christmas Day", *metadata.Holiday)
	assert.False(t, metadata.Weekend)
	require.True(t, metadata.HasWeather())
	assert.Equal(t, "24C", *metadata.Temperature)
	assert.Equal(t, "-33.86", weather.at.Lat)

	body, err := json.Marshal(metadata)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"wind-speed": "3 KM", "weather": "Clear sky (day)", "humidity": "65%",
		"temperature": "24C", "holiday": "Christmas Day", "weekend": false
	}`, string(body))
}

func TestEnrichOutsideForecastWindow(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
	}{
		{"today", day(20, time.December, 2023)},
		{"past", day(1, time.December, 2023)},
		{"eight days ahead", day(28, time.December, 2023)},
		{"next year", day(15, time.March, 2024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weather := &stubWeather{forecast: &enrichment.Forecast{Weather: "Rain"}}
			svc := newEnrichmentService(t, &stubHolidays{}, weather, 2023)

			metadata := svc.Enrich(context.Background(), tt.date, "Sydney", "NSW")

			assert.False(t, metadata.HasWeather())
			assert.Zero(t, weather.calls)

			body, err := json.Marshal(metadata)
			require.NoError(t, err)
			assert.NotContains(t, string(body), "temperature")
			assert.NotContains(t, string(body), "wind-speed")
		})
	}
}

func TestEnrichSevenDaysAheadIsInWindow(t *testing.T) {
	weather := &stubWeather{forecast: &enrichment.Forecast{Humidity: "50%"}}
	svc := newEnrichmentService(t, &stubHolidays{}, weather, 2023)

	assert.Equal(t, 7, svc.DaysAhead(day(27, time.December, 2023)))
	metadata := svc.Enrich(context.Background(), day(27, time.December, 2023), "Sydney", "NSW")

	assert.Equal(t, 1, weather.calls)
	require.NotNil(t, metadata.Humidity)
	assert.Nil(t, metadata.Temperature)
}

func TestEnrichDegradesOnFailures(t *testing.T) {
	holidays := &stubHolidays{err: errors.New("unreachable")}
	weather := &stubWeather{err: errors.New("timeout")}
	svc := newEnrichmentService(t, holidays, weather, 2023)

	// Saturday
	metadata := svc.Enrich(context.Background(), day(23, time.December, 2023), "Sydney", "NSW")

	assert.Nil(t, metadata.Holiday)
	assert.True(t, metadata.Weekend)
	assert.False(t, metadata.HasWeather())
	assert.Equal(t, 1, weather.calls)
}

func TestEnrichUnknownSuburbSkipsWeather(t *testing.T) {
	weather := &stubWeather{forecast: &enrichment.Forecast{Weather: "Rain"}}
	svc := newEnrichmentService(t, &stubHolidays{}, weather, 2023)

	metadata := svc.Enrich(context.Background(), day(22, time.December, 2023), "Atlantis", "NSW")

	assert.False(t, metadata.HasWeather())
	assert.Zero(t, weather.calls)
}

func TestEnrichHolidayYear(t *testing.T) {
	fixed := &stubHolidays{}
	newEnrichmentService(t, fixed, nil, 2023).Enrich(context.Background(), day(1, time.January, 2025), "Sydney", "NSW")
	assert.Equal(t, 2023, fixed.year)

	fromEvent := &stubHolidays{}
	newEnrichmentService(t, fromEvent, nil, 0).Enrich(context.Background(), day(1, time.January, 2025), "Sydney", "NSW")
	assert.Equal(t, 2025, fromEvent.year)
}
