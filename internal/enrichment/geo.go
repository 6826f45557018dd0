package enrichment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"my-calendar/internal/logger"
)

const (
	columnSuburb   = "Official Name Suburb"
	columnState    = "Official Name State"
	columnGeoPoint = "Geo Point"
)

var stateAbbreviations = map[string]string{
	"New South Wales":              "NSW",
	"Victoria":                     "VIC",
	"Queensland":                   "QLD",
	"Western Australia":            "WA",
	"South Australia":              "SA",
	"Tasmania":                     "TAS",
	"Northern Territory":           "NT",
	"Australian Capital Territory": "ACT",
}

type Coordinates struct {
	Lat string
	Lng string
}

type geoRow struct {
	suburb string
	state  string
	at     Coordinates
}

// GeoTable maps suburb and state names to coordinates. It is read-only
// after loading.
type GeoTable struct {
	rows []geoRow
}

// LoadGeoTable reads the suburb dataset at path. A missing or unreadable
// file yields an empty table and a warning.
func LoadGeoTable(path string, log *logger.Logger) *GeoTable {
	f, err := os.Open(path)
	if err != nil {
		if log != nil {
			log.Warn("ENRICH", fmt.Sprintf("Geo dataset %s unavailable, weather lookups disabled: %v", path, err))
		}
		return &GeoTable{}
	}
	defer f.Close()

	table, err := ParseGeoTable(f)
	if err != nil {
		if log != nil {
			log.Warn("ENRICH", fmt.Sprintf("Failed to parse geo dataset %s: %v", path, err))
		}
		return &GeoTable{}
	}
	if log != nil {
		log.Info("ENRICH", fmt.Sprintf("Loaded %d suburbs from %s", table.Len(), path))
	}
	return table
}

// ParseGeoTable reads a ';'-separated dataset with a header row.
func ParseGeoTable(r io.Reader) (*GeoTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	suburbCol, ok1 := index[columnSuburb]
	stateCol, ok2 := index[columnState]
	pointCol, ok3 := index[columnGeoPoint]
	if !ok1 || !ok2 || !ok3 {
		return nil, errors.New("dataset is missing a required column")
	}

	table := &GeoTable{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if suburbCol >= len(record) || stateCol >= len(record) || pointCol >= len(record) {
			continue
		}
		at, ok := parseGeoPoint(record[pointCol])
		if !ok {
			continue
		}
		state := strings.TrimSpace(record[stateCol])
		if abbr, ok := stateAbbreviations[state]; ok {
			state = abbr
		}
		table.rows = append(table.rows, geoRow{
			suburb: strings.TrimSpace(record[suburbCol]),
			state:  state,
			at:     at,
		})
	}
	return table, nil
}

func parseGeoPoint(s string) (Coordinates, bool) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinates{}, false
	}
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" || lng == "" {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lng: lng}, true
}

func (t *GeoTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Lookup returns the first row whose suburb contains suburb and whose state
// contains state.
func (t *GeoTable) Lookup(suburb, state string) (Coordinates, bool) {
	if t == nil {
		return Coordinates{}, false
	}
	for _, row := range t.rows {
		if strings.Contains(row.suburb, suburb) && strings.Contains(row.state, state) {
			return row.at, true
		}
	}
	return Coordinates{}, false
}
