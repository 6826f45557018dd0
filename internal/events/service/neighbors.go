package events

import (
	"time"

	"my-calendar/internal/models"
	"my-calendar/internal/utils"
)

// FindNeighbors scans events once and returns the events immediately before
// and after target in date and start-time order. Either result may be nil.
//
// An event on the target's own date replaces the running candidate whenever
// its start time is on the right side of the target's, regardless of the
// candidate found so far.
func FindNeighbors(events []models.Event, target models.Event, targetDate time.Time) (previous, next *models.Event) {
	var previousDate, nextDate time.Time

	for i := range events {
		e := &events[i]
		d, err := utils.ParseDate(e.Date)
		if err != nil {
			continue
		}

		closerBefore := previous == nil || d.After(previousDate) ||
			(d.Equal(previousDate) && e.StartTime > previous.StartTime)
		if (closerBefore && d.Before(targetDate)) ||
			(d.Equal(targetDate) && e.StartTime < target.StartTime) {
			previous, previousDate = e, d
		}

		closerAfter := next == nil || d.Before(nextDate) ||
			(d.Equal(nextDate) && e.StartTime < next.StartTime)
		if (closerAfter && d.After(targetDate)) ||
			(d.Equal(targetDate) && e.StartTime > target.StartTime) {
			next, nextDate = e, d
		}
	}
	return previous, next
}

// IsWeekend reports whether d falls on a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
