// database/flight_store.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/flighttracker/models"
)

const flightColumns = `flight_number, airline, departure_airport, arrival_airport,
	scheduled_departure, scheduled_arrival, actual_departure, actual_arrival, status,
	departure_lat, departure_lon, arrival_lat, arrival_lon,
	current_lat, current_lon, altitude, speed, last_updated`

const flightSelectColumns = `f.id, f.flight_number, f.airline, f.departure_airport, f.arrival_airport,
	f.scheduled_departure, f.scheduled_arrival, f.actual_departure, f.actual_arrival, f.status,
	f.departure_lat, f.departure_lon, f.arrival_lat, f.arrival_lon,
	f.current_lat, f.current_lon, f.altitude, f.speed, f.last_updated`

const upsertFlightQuery = `INSERT INTO flights (` + flightColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		airline = VALUES(airline),
		departure_airport = VALUES(departure_airport),
		arrival_airport = VALUES(arrival_airport),
		scheduled_departure = VALUES(scheduled_departure),
		scheduled_arrival = VALUES(scheduled_arrival),
		actual_departure = VALUES(actual_departure),
		actual_arrival = VALUES(actual_arrival),
		status = VALUES(status),
		departure_lat = VALUES(departure_lat),
		departure_lon = VALUES(departure_lon),
		arrival_lat = VALUES(arrival_lat),
		arrival_lon = VALUES(arrival_lon),
		current_lat = VALUES(current_lat),
		current_lon = VALUES(current_lon),
		altitude = VALUES(altitude),
		speed = VALUES(speed),
		last_updated = VALUES(last_updated)`

const trackedSelectQuery = `SELECT t.id, t.flight_number, t.date_added, ` + flightSelectColumns + `
	FROM tracked_flights t
	LEFT JOIN flights f ON f.flight_number = t.flight_number`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// AddTracked starts tracking flight.FlightNumber and stores flight as its
// latest status, both in one transaction. flight.LastUpdated is stamped.
// Returns ErrDuplicate if the number is already tracked.
func (s *MySQLStore) AddTracked(ctx context.Context, flight *models.Flight) (*models.TrackedFlight, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for %s: %w", flight.FlightNumber, err)
	}
	defer tx.Rollback()

	added := s.stamp()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO tracked_flights (flight_number, date_added) VALUES (?, ?)",
		flight.FlightNumber, added)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert tracked flight %s: %w", flight.FlightNumber, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read id of tracked flight %s: %w", flight.FlightNumber, err)
	}

	flight.LastUpdated = &added
	if err := upsertFlight(ctx, tx, flight); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tracked flight %s: %w", flight.FlightNumber, err)
	}

	log.Printf("Database: Now tracking %s (id %d)", flight.FlightNumber, id)
	return &models.TrackedFlight{
		ID:           id,
		FlightNumber: flight.FlightNumber,
		DateAdded:    added,
		Details:      flight,
	}, nil
}

// RemoveTracked stops tracking flightNumber and drops its stored status.
// It reports false if the number was not tracked.
func (s *MySQLStore) RemoveTracked(ctx context.Context, flightNumber string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction for %s: %w", flightNumber, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM tracked_flights WHERE flight_number = ?", flightNumber)
	if err != nil {
		return false, fmt.Errorf("failed to delete tracked flight %s: %w", flightNumber, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for %s: %w", flightNumber, err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM flights WHERE flight_number = ?", flightNumber); err != nil {
		return false, fmt.Errorf("failed to delete flight data for %s: %w", flightNumber, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit removal of %s: %w", flightNumber, err)
	}

	log.Printf("Database: Stopped tracking %s", flightNumber)
	return true, nil
}

// ListTracked returns every tracked flight, oldest first, with its stored status.
func (s *MySQLStore) ListTracked(ctx context.Context) ([]models.TrackedFlight, error) {
	rows, err := s.db.QueryContext(ctx, trackedSelectQuery+" ORDER BY t.date_added, t.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked flights: %w", err)
	}
	defer rows.Close()

	tracked := []models.TrackedFlight{}
	for rows.Next() {
		t, err := scanTracked(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracked flight row: %w", err)
		}
		tracked = append(tracked, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked flight rows: %w", err)
	}
	return tracked, nil
}

// GetTracked returns the tracked entry for flightNumber, or nil if it is not tracked.
func (s *MySQLStore) GetTracked(ctx context.Context, flightNumber string) (*models.TrackedFlight, error) {
	row := s.db.QueryRowContext(ctx, trackedSelectQuery+" WHERE t.flight_number = ?", flightNumber)
	t, err := scanTracked(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tracked flight %s: %w", flightNumber, err)
	}
	return t, nil
}

func (s *MySQLStore) CountTracked(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracked_flights").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracked flights: %w", err)
	}
	return n, nil
}

// GetFlight returns the stored status of flightNumber, or nil if none is stored.
func (s *MySQLStore) GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+flightSelectColumns+" FROM flights f WHERE f.flight_number = ?", flightNumber)
	var fr flightRow
	if err := row.Scan(fr.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight %s: %w", flightNumber, err)
	}
	return fr.toModel(), nil
}

// SaveFlight inserts or replaces the stored status of flight.FlightNumber
// and stamps flight.LastUpdated.
func (s *MySQLStore) SaveFlight(ctx context.Context, flight *models.Flight) error {
	updated := s.stamp()
	flight.LastUpdated = &updated
	return upsertFlight(ctx, s.db, flight)
}

func (s *MySQLStore) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func upsertFlight(ctx context.Context, db execer, f *models.Flight) error {
	_, err := db.ExecContext(ctx, upsertFlightQuery,
		f.FlightNumber,
		nullString(f.Airline), nullString(f.DepartureAirport), nullString(f.ArrivalAirport),
		nullTime(f.ScheduledDeparture), nullTime(f.ScheduledArrival),
		nullTime(f.ActualDeparture), nullTime(f.ActualArrival),
		nullString(f.Status),
		nullFloat(f.DepartureLat), nullFloat(f.DepartureLon),
		nullFloat(f.ArrivalLat), nullFloat(f.ArrivalLon),
		nullFloat(f.CurrentLat), nullFloat(f.CurrentLon),
		nullFloat(f.Altitude), nullFloat(f.Speed),
		nullTime(f.LastUpdated),
	)
	if err != nil {
		log.Printf("ERROR Database: saving flight %s: %v", f.FlightNumber, err)
		return fmt.Errorf("failed to save flight %s: %w", f.FlightNumber, err)
	}
	return nil
}

func scanTracked(row rowScanner) (*models.TrackedFlight, error) {
	var t models.TrackedFlight
	var fr flightRow
	dest := append([]any{&t.ID, &t.FlightNumber, &t.DateAdded}, fr.dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t.DateAdded = t.DateAdded.UTC()
	t.Details = fr.toModel()
	return &t, nil
}

// flightRow mirrors a flights row, every column nullable so it also serves
// the LEFT JOIN in trackedSelectQuery.
type flightRow struct {
	id                 sql.NullInt64
	flightNumber       sql.NullString
	airline            sql.NullString
	departureAirport   sql.NullString
	arrivalAirport     sql.NullString
	scheduledDeparture sql.NullTime
	scheduledArrival   sql.NullTime
	actualDeparture    sql.NullTime
	actualArrival      sql.NullTime
	status             sql.NullString
	departureLat       sql.NullFloat64
	departureLon       sql.NullFloat64
	arrivalLat         sql.NullFloat64
	arrivalLon         sql.NullFloat64
	currentLat         sql.NullFloat64
	currentLon         sql.NullFloat64
	altitude           sql.NullFloat64
	speed              sql.NullFloat64
	lastUpdated        sql.NullTime
}

func (r *flightRow) dest() []any {
	return []any{
		&r.id, &r.flightNumber, &r.airline, &r.departureAirport, &r.arrivalAirport,
		&r.scheduledDeparture, &r.scheduledArrival, &r.actualDeparture, &r.actualArrival, &r.status,
		&r.departureLat, &r.departureLon, &r.arrivalLat, &r.arrivalLon,
		&r.currentLat, &r.currentLon, &r.altitude, &r.speed, &r.lastUpdated,
	}
}

func (r *flightRow) toModel() *models.Flight {
	if !r.flightNumber.Valid {
		return nil
	}
	return &models.Flight{
		ID:                 r.id.Int64,
		FlightNumber:       r.flightNumber.String,
		Airline:            stringPtr(r.airline),
		DepartureAirport:   stringPtr(r.departureAirport),
		ArrivalAirport:     stringPtr(r.arrivalAirport),
		ScheduledDeparture: timePtr(r.scheduledDeparture),
		ScheduledArrival:   timePtr(r.scheduledArrival),
		ActualDeparture:    timePtr(r.actualDeparture),
		ActualArrival:      timePtr(r.actualArrival),
		Status:             stringPtr(r.status),
		DepartureLat:       floatPtr(r.departureLat),
		DepartureLon:       floatPtr(r.departureLon),
		ArrivalLat:         floatPtr(r.arrivalLat),
		ArrivalLon:         floatPtr(r.arrivalLon),
		CurrentLat:         floatPtr(r.currentLat),
		CurrentLon:         floatPtr(r.currentLon),
		Altitude:           floatPtr(r.altitude),
		Speed:              floatPtr(r.speed),
		LastUpdated:        timePtr(r.lastUpdated),
	}
}
