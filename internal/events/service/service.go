package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	"my-calendar/internal/events/db"
	"my-calendar/internal/logger"
	"my-calendar/internal/models"
	"my-calendar/internal/utils"
)

type EventDBLayer interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsByDate(ctx context.Context, date string) ([]models.Event, error)
	ListEventDates(ctx context.Context) ([]string, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

// Enricher derives holiday, weekend and weather metadata for an event.
// It never fails; missing data is left empty.
type Enricher interface {
	Enrich(ctx context.Context, date time.Time, suburb, state string) models.Metadata
}

type Publisher interface {
	PublishEventNotification(ctx context.Context, notification models.EventNotification) error
}

type EventService struct {
	DB        EventDBLayer
	Enricher  Enricher
	Publisher Publisher
	Logger    *logger.Logger
	// Now is the server's local clock.
	Now func() time.Time

	validate *validator.Validate
}

func NewEventService(db EventDBLayer, enricher Enricher, publisher Publisher, log *logger.Logger) *EventService {
	if log == nil {
		log = logger.NewLoggerWithWriter(io.Discard)
	}
	return &EventService{
		DB:        db,
		Enricher:  enricher,
		Publisher: publisher,
		Logger:    log,
		Now:       time.Now,
		validate:  newValidator(),
	}
}

// CreateEventRequest is the POST /events body.
type CreateEventRequest struct {
	Name        string           `json:"name" validate:"required"`
	Date        string           `json:"date" validate:"required"`
	From        string           `json:"from" validate:"required"`
	To          string           `json:"to" validate:"required"`
	Location    *models.Location `json:"location" validate:"required"`
	Description *string          `json:"description"`
}

type CreateEventResult struct {
	ID         int64        `json:"id"`
	LastUpdate string       `json:"last-update"`
	Links      models.Links `json:"_links"`
}

type UpdateEventResult struct {
	ID         int64        `json:"id"`
	LastUpdate string       `json:"last_update"`
	Links      models.Links `json:"_links"`
}

// EventDetail is the single-event view with metadata and neighbour links.
type EventDetail struct {
	ID          int64           `json:"id"`
	LastUpdate  *string         `json:"last-update"`
	Name        string          `json:"name"`
	Date        string          `json:"date"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Location    models.Location `json:"location"`
	Description *string         `json:"description"`
	Metadata    models.Metadata `json:"_metadata"`
	Links       models.Links    `json:"_links"`
}

func EventHref(id int64) string {
	return fmt.Sprintf("/events/%d", id)
}

func (s *EventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*CreateEventResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(validationMessage(err))
	}

	date, err := NormalizeDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := NormalizeTime(req.From)
	if err != nil {
		return nil, err
	}
	end, err := NormalizeTime(req.To)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, date, start, end); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:        req.Name,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Street:      req.Location.Street,
		Suburb:      req.Location.Suburb,
		State:       req.Location.State,
		PostCode:    req.Location.PostCode,
		Description: req.Description,
		LastUpdate:  utils.FormatTimestamp(s.Now()),
	}
	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.Logger.LogEvent("CREATE", event.ID, fmt.Sprintf("%s on %s %s-%s", event.Name, event.Date, event.StartTime, event.EndTime))
	s.publish(ctx, models.EventCreated, event.ID, event)

	return &CreateEventResult{
		ID:         event.ID,
		LastUpdate: event.LastUpdate,
		Links:      models.Links{Self: models.Link{Href: EventHref(event.ID)}},
	}, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*EventDetail, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	eventDate, err := utils.ParseDate(event.Date)
	if err != nil {
		return nil, fmt.Errorf("event %d has a malformed date %q: %w", id, event.Date, err)
	}

	all, err := s.DB.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	previous, next := FindNeighbors(all, *event, eventDate)

	var metadata models.Metadata
	if s.Enricher != nil {
		metadata = s.Enricher.Enrich(ctx, eventDate, event.Suburb, event.State)
	} else {
		metadata.Weekend = IsWeekend(eventDate)
	}

	links := models.Links{Self: models.Link{Href: EventHref(event.ID)}}
	if previous != nil {
		links.Previous = &models.Link{Href: EventHref(previous.ID)}
	}
	if next != nil {
		links.Next = &models.Link{Href: EventHref(next.ID)}
	}

	detail := &EventDetail{
		ID:          event.ID,
		Name:        event.Name,
		Date:        event.Date,
		From:        event.StartTime,
		To:          event.EndTime,
		Location:    event.Location(),
		Description: event.Description,
		Metadata:    metadata,
		Links:       links,
	}
	if event.LastUpdate != "" {
		lastUpdate := event.LastUpdate
		detail.LastUpdate = &lastUpdate
	}
	return detail, nil
}

// UpdateEvent merges the given fields over the stored row. Fields absent from
// patch keep their stored values; date and times are re-canonicalised.
func (s *EventService) UpdateEvent(ctx context.Context, id int64, patch map[string]json.RawMessage) (*UpdateEventResult, error) {
	if len(patch) == 0 {
		return nil, newValidationError(msgInvalidInput)
	}

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyPatch(event, patch); err != nil {
		return nil, err
	}

	if err := s.DB.UpdateEvent(ctx, event); err != nil {
		if errors.Is(err, db.ErrEventNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}

	s.Logger.LogEvent("UPDATE", id, fmt.Sprintf("%d field(s) changed", len(patch)))
	if stored, err := s.DB.GetEventByID(ctx, id); err == nil {
		event = stored
	}
	s.publish(ctx, models.EventUpdated, id, event)

	// The response carries the server clock; the row was stamped by the database clock.
	return &UpdateEventResult{
		ID:         id,
		LastUpdate: utils.FormatTimestamp(s.Now()),
		Links:      models.Links{Self: models.Link{Href: EventHref(id)}},
	}, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.DB.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, db.ErrEventNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}

	s.Logger.LogEvent("DELETE", id, "removed")
	s.publish(ctx, models.EventDeleted, id, event)
	return nil
}

// ListAllEvents returns every stored event in insertion order.
func (s *EventService) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.DB.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Exists reports whether id is stored.
func (s *EventService) Exists(ctx context.Context, id int64) error {
	_, err := s.getEvent(ctx, id)
	return err
}

func (s *EventService) getEvent(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.DB.GetEventByID(ctx, id)
	if errors.Is(err, db.ErrEventNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", id, err)
	}
	return event, nil
}

func (s *EventService) publish(ctx context.Context, kind models.NotificationType, id int64, event *models.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishEventNotification(ctx, models.NewEventNotification(kind, id, event)); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s notification for event #%d: %v", kind, id, err))
	}
}

// patchable maps update body keys to the field they overwrite.
var patchable = map[string]func(e *models.Event) *string{
	"name":      func(e *models.Event) *string { return &e.Name },
	"date":      func(e *models.Event) *string { return &e.Date },
	"from":      func(e *models.Event) *string { return &e.StartTime },
	"to":        func(e *models.Event) *string { return &e.EndTime },
	"street":    func(e *models.Event) *string { return &e.Street },
	"suburb":    func(e *models.Event) *string { return &e.Suburb },
	"state":     func(e *models.Event) *string { return &e.State },
	"post_code": func(e *models.Event) *string { return &e.PostCode },
}

func applyPatch(event *models.Event, patch map[string]json.RawMessage) error {
	for key, raw := range patch {
		if key == "description" {
			var desc *string
			if err := json.Unmarshal(raw, &desc); err != nil {
				return newValidationError(fmt.Sprintf("Invalid value for %s", key))
			}
			event.Description = desc
			continue
		}

		field, ok := patchable[key]
		if !ok {
			continue
		}
		var value *string
		if err := json.Unmarshal(raw, &value); err != nil || value == nil {
			return newValidationError(fmt.Sprintf("Invalid value for %s", key))
		}

		var err error
		switch key {
		case "date":
			*field(event), err = NormalizeDate(*value)
		case "from", "to":
			*field(event), err = NormalizeTime(*value)
		default:
			*field(event) = *value
		}
		if err != nil {
			return err
		}
	}
	return nil
}
