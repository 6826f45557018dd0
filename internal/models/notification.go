package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	EventCreated NotificationType = "created"
	EventUpdated NotificationType = "updated"
	EventDeleted NotificationType = "deleted"
)

// EventNotification is published after an event is created, updated or deleted.
type EventNotification struct {
	ID         uuid.UUID        `json:"id"`
	Type       NotificationType `json:"type"`
	EventID    int64            `json:"event_id"`
	OccurredAt time.Time        `json:"occurred_at"`
	Event      *Event           `json:"event,omitempty"`
}

func NewEventNotification(kind NotificationType, eventID int64, event *Event) EventNotification {
	return EventNotification{
		ID:         uuid.New(),
		Type:       kind,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
		Event:      event,
	}
}
