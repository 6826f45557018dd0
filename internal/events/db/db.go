package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"my-calendar/internal/models"
)

// ErrEventNotFound is returned when no row matches the requested id.
var ErrEventNotFound = errors.New("event not found")

// DB is the event store. Every read and write goes through the one *bun.DB.
type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().
		Model(event).
		Returning("id").
		Exec(ctx)
	return err
}

func (d *DB) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns every event in insertion order.
func (d *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Order("id ASC").
		Scan(ctx)
	return events, err
}

func (d *DB) ListEventsByDate(ctx context.Context, date string) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Where("date = ?", date).
		Order("id ASC").
		Scan(ctx)
	return events, err
}

// ListEventDates returns the date column of every row, duplicates included.
func (d *DB) ListEventDates(ctx context.Context) ([]string, error) {
	dates := make([]string, 0)
	err := d.Bun.NewSelect().
		Model((*models.Event)(nil)).
		Column("date").
		Order("id ASC").
		Scan(ctx, &dates)
	return dates, err
}

// UpdateEvent overwrites every mutable column of event.ID. last_update is
// stamped by the database clock, not by the caller.
func (d *DB) UpdateEvent(ctx context.Context, event *models.Event) error {
	res, err := d.Bun.NewUpdate().
		Model(event).
		Set("name = ?", event.Name).
		Set("date = ?", event.Date).
		Set("start_time = ?", event.StartTime).
		Set("end_time = ?", event.EndTime).
		Set("street = ?", event.Street).
		Set("suburb = ?", event.Suburb).
		Set("state = ?", event.State).
		Set("post_code = ?", event.PostCode).
		Set("description = ?", event.Description).
		Set("last_update = " + d.currentTimestamp()).
		Where("id = ?", event.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (d *DB) DeleteEvent(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (d *DB) CountEvents(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Event)(nil)).
		Count(ctx)
}

func (d *DB) Ping(ctx context.Context) error {
	return d.Bun.PingContext(ctx)
}

func (d *DB) currentTimestamp() string {
	if d.Bun.Dialect().Name() == dialect.PG {
		return "to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS')"
	}
	return "CURRENT_TIMESTAMP"
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
