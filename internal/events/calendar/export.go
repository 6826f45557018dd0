package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"my-calendar/internal/models"
	"my-calendar/internal/utils"
)

const productID = "-//my-calendar//events//EN"

// UID returns the stable iCalendar identifier of an event.
func UID(id int64) string {
	return fmt.Sprintf("event-%d@my-calendar", id)
}

// Build converts events to a VCALENDAR. Events whose date or times do not
// parse are skipped and returned in skipped.
func Build(events []models.Event, stamp time.Time) (cal *ical.Calendar, skipped []int64) {
	cal = ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for i := range events {
		e := &events[i]
		start, err1 := eventTime(e.Date, e.StartTime)
		end, err2 := eventTime(e.Date, e.EndTime)
		if err1 != nil || err2 != nil {
			skipped = append(skipped, e.ID)
			continue
		}

		ve := cal.AddEvent(UID(e.ID))
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(e.Name)
		ve.SetLocation(e.Address())
		if e.Description != nil {
			ve.SetDescription(*e.Description)
		}
		if modified, err := time.Parse(utils.TimestampLayout, e.LastUpdate); err == nil {
			ve.SetModifiedAt(modified)
		}
	}
	return cal, skipped
}

// Export writes the calendar for events to w.
func Export(w io.Writer, events []models.Event, stamp time.Time) ([]int64, error) {
	cal, skipped := Build(events, stamp)
	return skipped, cal.SerializeTo(w)
}

func eventTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(utils.DateLayout+" "+utils.TimeLayout, date+" "+clock, time.Local)
}
