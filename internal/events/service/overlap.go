package events

import (
	"context"
	"fmt"

	"my-calendar/internal/models"
)

// Overlaps reports whether [start, end] on the same date collides with existing.
// Times are canonical HH:MM strings, so lexical order is chronological.
func Overlaps(start, end string, existing models.Event) bool {
	es, ee := existing.StartTime, existing.EndTime
	return (start < ee && end > es) ||
		(start < es && end > ee) ||
		(start >= es && start < ee) ||
		(end > es && end <= ee)
}

func (s *EventService) checkOverlap(ctx context.Context, date, start, end string) error {
	sameDay, err := s.DB.ListEventsByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load events on %s: %w", date, err)
	}
	for _, e := range sameDay {
		if Overlaps(start, end, e) {
			s.Logger.Debug("EVENTS", fmt.Sprintf("Candidate %s %s-%s overlaps event #%d", date, start, end, e.ID))
			return ErrOverlap
		}
	}
	return nil
}
