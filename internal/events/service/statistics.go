package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"my-calendar/internal/utils"
)

// DayStat is the number of events on one canonical date.
type DayStat struct {
	Date           string
	Count          int
	InCurrentWeek  bool
	InCurrentMonth bool

	day    time.Time
	parsed bool
}

// DayCounts marshals as {"DD-MM-YYYY": count, ...} in slice order.
type DayCounts []DayStat

func (d DayCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, stat := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(stat.Date)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", stat.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Statistics struct {
	Total             int       `json:"total"`
	TotalCurrentWeek  int       `json:"total-current-week"`
	TotalCurrentMonth int       `json:"total-current-month"`
	PerDays           DayCounts `json:"per-days"`
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// CurrentWeek returns Monday through Sunday of the week containing today.
func CurrentWeek(today time.Time) Window {
	today = utils.StartOfDay(today)
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// CurrentMonth returns the first through the last day of today's month.
func CurrentMonth(today time.Time) Window {
	today = utils.StartOfDay(today)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

func (s *EventService) Statistics(ctx context.Context) (*Statistics, error) {
	dates, err := s.DB.ListEventDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event dates: %w", err)
	}
	return ComputeStatistics(dates, s.Now()), nil
}

// ComputeStatistics buckets dates by day and totals the buckets that fall in
// today's week and month.
func ComputeStatistics(dates []string, now time.Time) *Statistics {
	buckets := make(map[string]*DayStat)
	for _, date := range dates {
		if stat, ok := buckets[date]; ok {
			stat.Count++
			continue
		}
		stat := &DayStat{Date: date, Count: 1}
		if d, err := utils.ParseDate(date); err == nil {
			stat.day, stat.parsed = d, true
		}
		buckets[date] = stat
	}

	week, month := CurrentWeek(now), CurrentMonth(now)
	stats := &Statistics{Total: len(dates), PerDays: make(DayCounts, 0, len(buckets))}

	for _, stat := range buckets {
		if stat.parsed {
			stat.InCurrentWeek = week.Contains(stat.day)
			stat.InCurrentMonth = month.Contains(stat.day)
			sameYear := stat.day.Year() == now.Year()
			if stat.InCurrentWeek && sameYear {
				stats.TotalCurrentWeek += stat.Count
			}
			if stat.InCurrentMonth && sameYear {
				stats.TotalCurrentMonth += stat.Count
			}
		}
		stats.PerDays = append(stats.PerDays, *stat)
	}

	sort.Slice(stats.PerDays, func(i, j int) bool {
		a, b := stats.PerDays[i], stats.PerDays[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if a.parsed && !a.day.Equal(b.day) {
			return a.day.Before(b.day)
		}
		return a.Date < b.Date
	})
	return stats
}
