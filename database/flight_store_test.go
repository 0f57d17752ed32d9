package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/flighttracker/config"
	"github.com/gewnthar/flighttracker/models"
)

var fixedNow = time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

var flightCols = []string{
	"id", "flight_number", "airline", "departure_airport", "arrival_airport",
	"scheduled_departure", "scheduled_arrival", "actual_departure", "actual_arrival", "status",
	"departure_lat", "departure_lon", "arrival_lat", "arrival_lon",
	"current_lat", "current_lon", "altitude", "speed", "last_updated",
}

func trackedCols() []string {
	return append([]string{"id", "flight_number", "date_added"}, flightCols...)
}

func newMockStore(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewMySQLStore(db)
	store.now = func() time.Time { return fixedNow.Add(250 * time.Millisecond) }
	return store, mock
}

func ptr[T any](v T) *T { return &v }

func sampleFlight() *models.Flight {
	return &models.Flight{
		FlightNumber:       "BA117",
		Airline:            ptr("British Airways"),
		DepartureAirport:   ptr("LHR"),
		ArrivalAirport:     ptr("JFK"),
		ScheduledDeparture: ptr(time.Date(2024, 5, 1, 18, 30, 0, 0, time.FixedZone("", 3600))),
		Status:             ptr("active"),
		DepartureLat:       ptr(51.47),
		DepartureLon:       ptr(-0.4543),
		ArrivalLat:         ptr(40.6413),
		ArrivalLon:         ptr(-73.7781),
		CurrentLat:         ptr(52.1),
		CurrentLon:         ptr(-20.5),
		Altitude:           ptr(11000.0),
		Speed:              ptr(850.0),
	}
}

// flightArgs lists the upsert arguments for sampleFlight stamped at fixedNow.
func flightArgs() []driver.Value {
	return []driver.Value{
		"BA117", "British Airways", "LHR", "JFK",
		time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC), nil, nil, nil,
		"active",
		51.47, -0.4543, 40.6413, -73.7781,
		52.1, -20.5, 11000.0, 850.0,
		fixedNow,
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.local",
		Port:     "3306",
		User:     "tracker",
		Password: "p@ss:word",
		DBName:   "flights",
	})

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "tracker", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "db.local:3306", parsed.Addr)
	assert.Equal(t, "flights", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS tracked_flights")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS flights")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS tracked_flights")).WillReturnError(errors.New("access denied"))

	err := store.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTracked(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracked_flights (flight_number, date_added)")).
		WithArgs("BA117", fixedNow).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`(?s)INSERT INTO flights .*ON DUPLICATE KEY UPDATE`).
		WithArgs(flightArgs()...).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	f := sampleFlight()
	tracked, err := store.AddTracked(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int64(7), tracked.ID)
	assert.Equal(t, "BA117", tracked.FlightNumber)
	assert.Equal(t, fixedNow, tracked.DateAdded)
	require.NotNil(t, tracked.Details)
	assert.Equal(t, fixedNow, *tracked.Details.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTrackedDuplicate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracked_flights")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'BA117'"})
	mock.ExpectRollback()

	_, err := store.AddTracked(context.Background(), sampleFlight())
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTrackedRollsBackWhenFlightInsertFails(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracked_flights")).WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO flights")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := store.AddTracked(context.Background(), sampleFlight())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveTracked(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tracked_flights WHERE flight_number = ?")).
		WithArgs("BA117").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM flights WHERE flight_number = ?")).
		WithArgs("BA117").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := store.RemoveTracked(context.Background(), "BA117")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveTrackedMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tracked_flights")).
		WithArgs("ZZ999").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	removed, err := store.RemoveTracked(context.Background(), "ZZ999")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTracked(t *testing.T) {
	store, mock := newMockStore(t)
	added := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(trackedCols()).
		AddRow(int64(1), "BA117", added,
			int64(4), "BA117", "British Airways", "LHR", "JFK",
			added, nil, nil, nil, "active",
			51.47, -0.4543, 40.6413, -73.7781,
			52.1, -20.5, nil, nil, fixedNow).
		AddRow(int64(2), "AF22", added.Add(time.Minute),
			nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id, t.flight_number, t.date_added")).WillReturnRows(rows)

	tracked, err := store.ListTracked(context.Background())
	require.NoError(t, err)
	require.Len(t, tracked, 2)

	assert.Equal(t, "BA117", tracked[0].FlightNumber)
	require.NotNil(t, tracked[0].Details)
	assert.Equal(t, int64(4), tracked[0].Details.ID)
	assert.Equal(t, "British Airways", *tracked[0].Details.Airline)
	assert.Equal(t, added, *tracked[0].Details.ScheduledDeparture)
	assert.Nil(t, tracked[0].Details.ScheduledArrival)
	assert.Nil(t, tracked[0].Details.Altitude)
	assert.Equal(t, 52.1, *tracked[0].Details.CurrentLat)

	assert.Equal(t, "AF22", tracked[1].FlightNumber)
	assert.Nil(t, tracked[1].Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTrackedEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id")).WillReturnRows(sqlmock.NewRows(trackedCols()))

	tracked, err := store.ListTracked(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tracked)
	assert.Empty(t, tracked)
}

func TestGetTrackedMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.flight_number = ?")).
		WithArgs("ZZ999").
		WillReturnRows(sqlmock.NewRows(trackedCols()))

	tracked, err := store.GetTracked(context.Background(), "ZZ999")
	require.NoError(t, err)
	assert.Nil(t, tracked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountTracked(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tracked_flights")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := store.CountTracked(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetFlight(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights f WHERE f.flight_number = ?")).
		WithArgs("BA117").
		WillReturnRows(sqlmock.NewRows(flightCols).AddRow(
			int64(4), "BA117", "British Airways", "LHR", "JFK",
			nil, nil, nil, nil, "landed",
			51.47, -0.4543, 40.6413, -73.7781,
			40.6413, -73.7781, nil, nil, fixedNow))

	f, err := store.GetFlight(context.Background(), "BA117")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "landed", *f.Status)
	assert.Equal(t, fixedNow, *f.LastUpdated)
	assert.Nil(t, f.ScheduledDeparture)
}

func TestGetFlightMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights f")).WillReturnRows(sqlmock.NewRows(flightCols))

	f, err := store.GetFlight(context.Background(), "ZZ999")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestSaveFlight(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`(?s)INSERT INTO flights .*ON DUPLICATE KEY UPDATE`).
		WithArgs(flightArgs()...).
		WillReturnResult(sqlmock.NewResult(0, 2))

	f := sampleFlight()
	require.NoError(t, store.SaveFlight(context.Background(), f))
	assert.Equal(t, fixedNow, *f.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveFlightError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO flights")).WillReturnError(errors.New("connection reset"))

	err := store.SaveFlight(context.Background(), sampleFlight())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BA117")
}
