package enrichment

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"my-calendar/internal/logger"
	"my-calendar/internal/models"
	"my-calendar/internal/utils"
)

// Weather is only looked up for events this many days ahead.
const (
	forecastMinDays = 1
	forecastMaxDays = 7
)

type HolidayLookup interface {
	HolidayOn(ctx context.Context, year int, date time.Time) (*string, error)
}

type ForecastLookup interface {
	Forecast(ctx context.Context, at Coordinates) (*Forecast, error)
}

// Service builds the _metadata section of a single event.
type Service struct {
	Holidays HolidayLookup
	Weather  ForecastLookup
	Geo      *GeoTable
	// HolidayYear is the year whose holiday list is searched; 0 uses the
	// event's own year.
	HolidayYear int
	Logger      *logger.Logger
	Now         func() time.Time
}

func NewService(holidays HolidayLookup, weather ForecastLookup, geo *GeoTable, holidayYear int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewLoggerWithWriter(io.Discard)
	}
	return &Service{
		Holidays:    holidays,
		Weather:     weather,
		Geo:         geo,
		HolidayYear: holidayYear,
		Logger:      log,
		Now:         time.Now,
	}
}

// Enrich never fails. Lookups that error are logged and leave their fields empty.
func (s *Service) Enrich(ctx context.Context, date time.Time, suburb, state string) models.Metadata {
	wd := date.Weekday()
	metadata := models.Metadata{Weekend: wd == time.Saturday || wd == time.Sunday}

	if s.Holidays != nil {
		year := s.HolidayYear
		if year == 0 {
			year = date.Year()
		}
		holiday, err := s.Holidays.HolidayOn(ctx, year, date)
		if err != nil {
			s.Logger.Warn("ENRICH", fmt.Sprintf("Holiday lookup failed: %v", err))
		}
		metadata.Holiday = holiday
	}

	if s.Weather == nil || !s.inForecastWindow(date) {
		return metadata
	}

	at, ok := s.Geo.Lookup(suburb, state)
	if !ok {
		s.Logger.Debug("ENRICH", fmt.Sprintf("No coordinates for %s, %s", suburb, state))
		return metadata
	}

	forecast, err := s.Weather.Forecast(ctx, at)
	if err != nil {
		s.Logger.Warn("ENRICH", fmt.Sprintf("Weather lookup failed for %s, %s: %v", suburb, state, err))
		return metadata
	}
	forecast.apply(&metadata)
	return metadata
}

// DaysAhead is the number of calendar days from today to date.
func (s *Service) DaysAhead(date time.Time) int {
	today := utils.StartOfDay(s.Now())
	return int(math.Round(utils.StartOfDay(date).Sub(today).Hours() / 24))
}

func (s *Service) inForecastWindow(date time.Time) bool {
	days := s.DaysAhead(date)
	return days >= forecastMinDays && days <= forecastMaxDays
}
