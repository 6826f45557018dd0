package models

import (
	"strings"

	"github.com/uptrace/bun"
)

// Event is the only persisted entity. Date, StartTime and EndTime hold the
// canonical DD-MM-YYYY and HH:MM forms.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	Name        string  `bun:"name,notnull" json:"name"`
	Date        string  `bun:"date,notnull" json:"date"`
	StartTime   string  `bun:"start_time,notnull" json:"from"`
	EndTime     string  `bun:"end_time,notnull" json:"to"`
	Street      string  `bun:"street,notnull" json:"street"`
	Suburb      string  `bun:"suburb,notnull" json:"suburb"`
	State       string  `bun:"state,notnull" json:"state"`
	PostCode    string  `bun:"post_code,notnull" json:"post_code"`
	Description *string `bun:"description" json:"description"`
	LastUpdate  string  `bun:"last_update,nullzero" json:"last_update"`
}

// Location is the nested address of the create body and the single-event response.
type Location struct {
	Street   string `json:"street" validate:"required"`
	Suburb   string `json:"suburb" validate:"required"`
	State    string `json:"state" validate:"required"`
	PostCode string `json:"post-code" validate:"required"`
}

// ProjectableFields lists the names accepted by the list filter, in column order.
var ProjectableFields = []string{
	"id", "name", "date", "from", "to", "street", "suburb", "state", "post_code", "description", "last_update",
}

func (e *Event) Location() Location {
	return Location{Street: e.Street, Suburb: e.Suburb, State: e.State, PostCode: e.PostCode}
}

// Address joins the location parts for display.
func (e *Event) Address() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.Street, e.Suburb, e.State, e.PostCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Field returns the value stored under a projectable field name.
func (e *Event) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "name":
		return e.Name, true
	case "date":
		return e.Date, true
	case "from":
		return e.StartTime, true
	case "to":
		return e.EndTime, true
	case "street":
		return e.Street, true
	case "suburb":
		return e.Suburb, true
	case "state":
		return e.State, true
	case "post_code":
		return e.PostCode, true
	case "description":
		if e.Description == nil {
			return nil, true
		}
		return *e.Description, true
	case "last_update":
		if e.LastUpdate == "" {
			return nil, true
		}
		return e.LastUpdate, true
	}
	return nil, false
}
