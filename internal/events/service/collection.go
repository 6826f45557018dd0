package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"my-calendar/internal/models"
	"my-calendar/internal/utils"
)

const (
	DefaultOrder  = "+id"
	DefaultFilter = "id,name"
	DefaultPage   = 1
	DefaultSize   = 10
)

// ListQuery holds the parsed query string of GET /events.
type ListQuery struct {
	Order  string
	Filter string
	Page   int
	Size   int
	// BaseURL prefixes the next/previous links, e.g. http://host/events.
	BaseURL string
	// Self is the request path with its query string.
	Self string
}

func DefaultListQuery() ListQuery {
	return ListQuery{Order: DefaultOrder, Filter: DefaultFilter, Page: DefaultPage, Size: DefaultSize}
}

// Field is one projected name/value pair.
type Field struct {
	Name  string
	Value interface{}
}

// Record is a projected event. It marshals as a JSON object whose keys keep
// the order requested in the filter.
type Record []Field

func (r Record) Get(name string) (interface{}, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type EventPage struct {
	Page     int          `json:"page"`
	PageSize int          `json:"page-size"`
	Events   []Record     `json:"events"`
	Links    models.Links `json:"_links"`
}

type sortKey struct {
	field      string
	descending bool
}

func (s *EventService) ListEvents(ctx context.Context, q ListQuery) (*EventPage, error) {
	if q.Page < 1 || q.Size < 1 {
		return nil, newValidationError(msgInvalidInput)
	}

	all, err := s.DB.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	records, err := Project(all, strings.Split(q.Filter, ","))
	if err != nil {
		return nil, err
	}

	keys, err := parseOrder(q.Order)
	if err != nil {
		return nil, err
	}
	SortRecords(records, keys)

	begin, last := pageBounds(q.Page, q.Size, len(records))

	page := &EventPage{
		Page:     q.Page,
		PageSize: q.Size,
		Events:   window(records, begin, last),
		Links:    models.Links{Self: models.Link{Href: q.Self}},
	}
	if last < len(records) {
		page.Links.Next = &models.Link{Href: pageHref(q, q.Page+1)}
	}
	// (page-1)*size > 1, not > 0: the second page of size 1 gets no previous link.
	if q.Page > 2 || (q.Page == 2 && q.Size > 1) {
		page.Links.Previous = &models.Link{Href: pageHref(q, q.Page-1)}
	}
	return page, nil
}

// pageBounds returns the [begin, last) range of a page within total records.
// Pages past the end are empty; page*size never overflows.
func pageBounds(page, size, total int) (begin, last int) {
	if page-1 > total/size {
		return total, total
	}
	begin = (page - 1) * size
	if begin > total {
		return total, total
	}
	if size > total-begin {
		return begin, total
	}
	return begin, begin + size
}

// Project copies the requested fields of every event, failing on the first
// unknown field name even when there are no events.
func Project(events []models.Event, fields []string) ([]Record, error) {
	names := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, name := range fields {
		if !projectable(name) {
			return nil, newValidationError(msgInvalidFilter)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	records := make([]Record, 0, len(events))
	for i := range events {
		record := make(Record, 0, len(names))
		for _, name := range names {
			value, ok := events[i].Field(name)
			if !ok {
				return nil, newValidationError(msgInvalidFilter)
			}
			record = append(record, Field{Name: name, Value: value})
		}
		records = append(records, record)
	}
	return records, nil
}

func projectable(name string) bool {
	for _, f := range models.ProjectableFields {
		if f == name {
			return true
		}
	}
	return false
}

// parseOrder reads "+a,-b". Keys without a sign are ignored; a leading space
// is an unescaped "+" from the query string.
func parseOrder(order string) ([]sortKey, error) {
	var keys []sortKey
	for _, key := range strings.Split(order, ",") {
		switch {
		case strings.HasPrefix(key, "-"):
			keys = append(keys, sortKey{field: key[1:], descending: true})
		case strings.HasPrefix(key, "+"), strings.HasPrefix(key, " "):
			keys = append(keys, sortKey{field: key[1:]})
		}
	}
	if len(keys) == 0 {
		return nil, newValidationError(msgInvalidOrder)
	}
	return keys, nil
}

// SortRecords sorts by the composite key. The direction of the last key
// applies to the whole sort; equal records keep their order.
func SortRecords(records []Record, keys []sortKey) {
	if len(keys) == 0 {
		return
	}
	descending := keys[len(keys)-1].descending

	sort.SliceStable(records, func(i, j int) bool {
		c := compareRecords(records[i], records[j], keys)
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func compareRecords(a, b Record, keys []sortKey) int {
	for _, k := range keys {
		av, _ := a.Get(k.field)
		bv, _ := b.Get(k.field)
		if c := compareValues(k.field, av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// compareValues orders nil before everything else, numbers numerically and
// dates chronologically.
func compareValues(field string, a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ai, ok := a.(int64); ok {
		if bi, ok := b.(int64); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}

	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	if field == "date" {
		ad, aerr := utils.ParseDate(as)
		bd, berr := utils.ParseDate(bs)
		if aerr == nil && berr == nil {
			return ad.Compare(bd)
		}
	}
	return strings.Compare(as, bs)
}

// window returns records[begin:last], clamped to the slice bounds.
func window(records []Record, begin, last int) []Record {
	begin = clamp(begin, 0, len(records))
	last = clamp(last, begin, len(records))
	out := make([]Record, last-begin)
	copy(out, records[begin:last])
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func pageHref(q ListQuery, page int) string {
	return fmt.Sprintf("%s?order=%s&page=%d&size=%d&filter=%s",
		q.BaseURL, url.QueryEscape(q.Order), page, q.Size, url.QueryEscape(q.Filter))
}
