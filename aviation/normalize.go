// aviation/normalize.go
package aviation

import (
	"fmt"
	"strings"

	"github.com/gewnthar/flighttracker/airports"
	"github.com/gewnthar/flighttracker/models"
)

// Normalizer turns raw provider records into models.Flight values.
// It holds only the read-only airport table and is safe for concurrent use.
type Normalizer struct {
	airports *airports.Table
}

// NewNormalizer returns a Normalizer that falls back to table for airport
// coordinates. A nil table disables the fallback.
func NewNormalizer(table *airports.Table) *Normalizer {
	return &Normalizer{airports: table}
}

// Normalize builds a flight from one raw record. queriedFlightNumber is used
// when the record does not carry its own flight number.
func (n *Normalizer) Normalize(raw RawFlightRecord, queriedFlightNumber string) (flight *models.Flight, err error) {
	defer func() {
		if r := recover(); r != nil {
			flight = nil
			err = fmt.Errorf("%w: %v", ErrMalformedRecord, r)
		}
	}()

	rec := map[string]any(raw)

	flight = &models.Flight{
		FlightNumber:       strings.TrimSpace(queriedFlightNumber),
		Airline:            stringAt(rec, "airline", "name"),
		DepartureAirport:   stringAt(rec, "departure", "iata"),
		ArrivalAirport:     stringAt(rec, "arrival", "iata"),
		ScheduledDeparture: timeAt(rec, "departure", "scheduled"),
		ScheduledArrival:   timeAt(rec, "arrival", "scheduled"),
		ActualDeparture:    timeAt(rec, "departure", "actual"),
		ActualArrival:      timeAt(rec, "arrival", "actual"),
		Status:             stringAt(rec, "flight_status"),
		Altitude:           floatAt(rec, "live", "altitude"),
		Speed:              floatAt(rec, "live", "speed_horizontal"),
	}
	if reported := stringAt(rec, "flight", "iata"); reported != nil {
		flight.FlightNumber = *reported
	}

	flight.DepartureLat, flight.DepartureLon = n.airportPosition(rec, "departure", flight.DepartureAirport)
	flight.ArrivalLat, flight.ArrivalLon = n.airportPosition(rec, "arrival", flight.ArrivalAirport)

	flight.CurrentLat = floatAt(rec, "live", "latitude")
	flight.CurrentLon = floatAt(rec, "live", "longitude")
	if flight.CurrentLat == nil || flight.CurrentLon == nil {
		flight.CurrentLat, flight.CurrentLon = estimatePosition(flight)
	}

	if !flight.HasData() {
		return nil, ErrNoData
	}
	return flight, nil
}

// airportPosition prefers coordinates reported for the airport object
// (both required), then the table entry for code.
func (n *Normalizer) airportPosition(rec map[string]any, side string, code *string) (lat, lon *float64) {
	lat = floatAt(rec, side, "latitude")
	lon = floatAt(rec, side, "longitude")
	if lat != nil && lon != nil {
		return lat, lon
	}
	if code != nil {
		if c, ok := n.airports.Lookup(*code); ok {
			return &c.Lat, &c.Lon
		}
	}
	return nil, nil
}

// estimatePosition guesses where the flight is from its status when no live
// position was reported. It needs both airport positions.
func estimatePosition(f *models.Flight) (lat, lon *float64) {
	if f.DepartureLat == nil || f.DepartureLon == nil || f.ArrivalLat == nil || f.ArrivalLon == nil {
		return nil, nil
	}
	if f.Status == nil {
		return nil, nil
	}

	switch strings.ToLower(*f.Status) {
	case "scheduled":
		return copyFloat(f.DepartureLat), copyFloat(f.DepartureLon)
	case "landed", "arrived":
		return copyFloat(f.ArrivalLat), copyFloat(f.ArrivalLon)
	case "active", "en-route":
		// Straight-line midpoint, not great-circle.
		midLat := (*f.DepartureLat + *f.ArrivalLat) / 2
		midLon := (*f.DepartureLon + *f.ArrivalLon) / 2
		return &midLat, &midLon
	}
	return nil, nil
}

func copyFloat(f *float64) *float64 {
	v := *f
	return &v
}
