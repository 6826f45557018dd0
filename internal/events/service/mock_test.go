package events_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"my-calendar/internal/models"
)

// MockEventDB is a mock implementation of the EventDBLayer interface
type MockEventDB struct {
	mock.Mock
}

func (m *MockEventDB) CreateEvent(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventDB) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventDB) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventDB) ListEventsByDate(ctx context.Context, date string) ([]models.Event, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventDB) ListEventDates(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEventDB) UpdateEvent(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventDB) DeleteEvent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher records published notifications
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEventNotification(ctx context.Context, n models.EventNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// stubEnricher returns fixed metadata and records the last lookup
type stubEnricher struct {
	metadata models.Metadata
	date     time.Time
	suburb   string
	state    string
}

func (s *stubEnricher) Enrich(ctx context.Context, date time.Time, suburb, state string) models.Metadata {
	s.date, s.suburb, s.state = date, suburb, state
	return s.metadata
}

func sampleEvent(id int64, name, date, from, to string) models.Event {
	return models.Event{
		ID:         id,
		Name:       name,
		Date:       date,
		StartTime:  from,
		EndTime:    to,
		Street:     "1 George St",
		Suburb:     "Sydney",
		State:      "NSW",
		PostCode:   "2000",
		LastUpdate: "2023-12-01 09:00:00",
	}
}
