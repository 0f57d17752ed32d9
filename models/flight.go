// models/flight.go
package models

import "time"

// Flight is the normalized status of one flight. Optional fields are nil
// when the provider did not report them and no fallback applied.
type Flight struct {
	ID                 int64      `db:"id" json:"id,omitempty"`
	FlightNumber       string     `db:"flight_number" json:"flight_number"`
	Airline            *string    `db:"airline" json:"airline"`
	DepartureAirport   *string    `db:"departure_airport" json:"departure_airport"`
	ArrivalAirport     *string    `db:"arrival_airport" json:"arrival_airport"`
	ScheduledDeparture *time.Time `db:"scheduled_departure" json:"scheduled_departure"`
	ScheduledArrival   *time.Time `db:"scheduled_arrival" json:"scheduled_arrival"`
	ActualDeparture    *time.Time `db:"actual_departure" json:"actual_departure"`
	ActualArrival      *time.Time `db:"actual_arrival" json:"actual_arrival"`
	Status             *string    `db:"status" json:"status"`
	DepartureLat       *float64   `db:"departure_lat" json:"departure_lat"`
	DepartureLon       *float64   `db:"departure_lon" json:"departure_lon"`
	ArrivalLat         *float64   `db:"arrival_lat" json:"arrival_lat"`
	ArrivalLon         *float64   `db:"arrival_lon" json:"arrival_lon"`
	CurrentLat         *float64   `db:"current_lat" json:"current_lat"`
	CurrentLon         *float64   `db:"current_lon" json:"current_lon"`
	Altitude           *float64   `db:"altitude" json:"altitude"`
	Speed              *float64   `db:"speed" json:"speed"`

	// Set only on stored copies.
	LastUpdated *time.Time `db:"last_updated" json:"last_updated,omitempty"`
}

// HasData reports whether the flight carries any of the descriptive fields
// a provider is expected to return for a real flight.
func (f *Flight) HasData() bool {
	if f == nil {
		return false
	}
	return f.Airline != nil ||
		f.DepartureAirport != nil ||
		f.ArrivalAirport != nil ||
		f.ScheduledDeparture != nil ||
		f.ScheduledArrival != nil ||
		f.Status != nil
}

// MergeFrom copies a freshly fetched record over f. Timestamps the new
// record lacks keep their previous values; every other field is replaced.
func (f *Flight) MergeFrom(fresh *Flight) {
	if fresh == nil {
		return
	}
	f.Airline = fresh.Airline
	f.DepartureAirport = fresh.DepartureAirport
	f.ArrivalAirport = fresh.ArrivalAirport
	if fresh.ScheduledDeparture != nil {
		f.ScheduledDeparture = fresh.ScheduledDeparture
	}
	if fresh.ScheduledArrival != nil {
		f.ScheduledArrival = fresh.ScheduledArrival
	}
	if fresh.ActualDeparture != nil {
		f.ActualDeparture = fresh.ActualDeparture
	}
	if fresh.ActualArrival != nil {
		f.ActualArrival = fresh.ActualArrival
	}
	f.Status = fresh.Status
	f.DepartureLat = fresh.DepartureLat
	f.DepartureLon = fresh.DepartureLon
	f.ArrivalLat = fresh.ArrivalLat
	f.ArrivalLon = fresh.ArrivalLon
	f.CurrentLat = fresh.CurrentLat
	f.CurrentLon = fresh.CurrentLon
	f.Altitude = fresh.Altitude
	f.Speed = fresh.Speed
}

// Clone returns a deep copy of f.
func (f *Flight) Clone() *Flight {
	if f == nil {
		return nil
	}
	c := *f
	c.Airline = cloneString(f.Airline)
	c.DepartureAirport = cloneString(f.DepartureAirport)
	c.ArrivalAirport = cloneString(f.ArrivalAirport)
	c.Status = cloneString(f.Status)
	c.ScheduledDeparture = cloneTime(f.ScheduledDeparture)
	c.ScheduledArrival = cloneTime(f.ScheduledArrival)
	c.ActualDeparture = cloneTime(f.ActualDeparture)
	c.ActualArrival = cloneTime(f.ActualArrival)
	c.LastUpdated = cloneTime(f.LastUpdated)
	c.DepartureLat = cloneFloat(f.DepartureLat)
	c.DepartureLon = cloneFloat(f.DepartureLon)
	c.ArrivalLat = cloneFloat(f.ArrivalLat)
	c.ArrivalLon = cloneFloat(f.ArrivalLon)
	c.CurrentLat = cloneFloat(f.CurrentLat)
	c.CurrentLon = cloneFloat(f.CurrentLon)
	c.Altitude = cloneFloat(f.Altitude)
	c.Speed = cloneFloat(f.Speed)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// TrackedFlight is a flight number the user asked to follow.
type TrackedFlight struct {
	ID           int64     `db:"id" json:"id"`
	FlightNumber string    `db:"flight_number" json:"flight_number"`
	DateAdded    time.Time `db:"date_added" json:"date_added"`

	// Latest stored status, if any. Not a column of tracked_flights.
	Details *Flight `db:"-" json:"details,omitempty"`
}
