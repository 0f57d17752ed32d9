// airports/table.go
package airports

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"
)

//go:embed airports.csv
var builtinCSV []byte

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Airport is one row of an airport coordinate CSV.
// Headers must be exactly iata,name,latitude,longitude.
type Airport struct {
	IATA      string  `csv:"iata" json:"iata"`
	Name      string  `csv:"name" json:"name"`
	Latitude  float64 `csv:"latitude" json:"latitude"`
	Longitude float64 `csv:"longitude" json:"longitude"`
}

// Table maps IATA codes to coordinates. It is never modified after
// construction, so concurrent lookups need no locking.
type Table struct {
	byCode map[string]Airport
}

// ParseAirportsCsv decodes airport rows from CSV data.
func ParseAirportsCsv(reader io.Reader) ([]Airport, error) {
	var rows []Airport

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for airports: %w", err)
	}
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode airports CSV data: %w", err)
	}
	return rows, nil
}

// NewTable builds a table from the given rows. Later rows win on duplicate codes.
// Rows with a blank code or out-of-range coordinates are rejected.
func NewTable(rows []Airport) (*Table, error) {
	t := &Table{byCode: make(map[string]Airport, len(rows))}
	for i, row := range rows {
		code := NormalizeAirportCode(row.IATA)
		if code == "" {
			return nil, fmt.Errorf("airport row %d: missing iata code", i+1)
		}
		if row.Latitude < -90 || row.Latitude > 90 || row.Longitude < -180 || row.Longitude > 180 {
			return nil, fmt.Errorf("airport %s: coordinates out of range (%v, %v)", code, row.Latitude, row.Longitude)
		}
		row.IATA = code
		t.byCode[code] = row
	}
	return t, nil
}

// Builtin returns the table of major airports compiled into the binary.
func Builtin() (*Table, error) {
	rows, err := ParseAirportsCsv(bytes.NewReader(builtinCSV))
	if err != nil {
		return nil, err
	}
	return NewTable(rows)
}

// Load returns the builtin table, with rows from extraSource merged on top
// when one is given. extraSource is a local path or an http(s) URL.
func Load(extraSource string) (*Table, error) {
	rows, err := ParseAirportsCsv(bytes.NewReader(builtinCSV))
	if err != nil {
		return nil, fmt.Errorf("failed to parse builtin airports: %w", err)
	}

	if source := strings.TrimSpace(extraSource); source != "" {
		body, err := openSource(source)
		if err != nil {
			return nil, err
		}
		defer body.Close()

		extra, err := ParseAirportsCsv(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse airports from %s: %w", source, err)
		}
		log.Printf("Airports: merging %d rows from %s\n", len(extra), source)
		rows = append(rows, extra...)
	}

	table, err := NewTable(rows)
	if err != nil {
		return nil, err
	}
	log.Printf("Airports: coordinate table loaded with %d airports.\n", table.Len())
	return table, nil
}

// Lookup returns the coordinates for an airport code.
func (t *Table) Lookup(code string) (Coordinates, bool) {
	if t == nil {
		return Coordinates{}, false
	}
	a, ok := t.byCode[NormalizeAirportCode(code)]
	if !ok {
		return Coordinates{}, false
	}
	return Coordinates{Lat: a.Latitude, Lon: a.Longitude}, true
}

// Airport returns the full row for an airport code.
func (t *Table) Airport(code string) (Airport, bool) {
	if t == nil {
		return Airport{}, false
	}
	a, ok := t.byCode[NormalizeAirportCode(code)]
	return a, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byCode)
}

// Codes returns all codes in sorted order.
func (t *Table) Codes() []string {
	if t == nil {
		return nil
	}
	codes := make([]string, 0, len(t.byCode))
	for code := range t.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
