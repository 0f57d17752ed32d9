// database/memory_store.go
package database

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gewnthar/flighttracker/models"
)

// MemoryStore keeps tracked flights in process memory. Stored values are
// copied on the way in and out so callers never share them.
type MemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	nextFlightID int64
	tracked      []models.TrackedFlight
	flights      map[string]*models.Flight
	now          func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flights: make(map[string]*models.Flight),
		now:     time.Now,
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) AddTracked(ctx context.Context, flight *models.Flight) (*models.TrackedFlight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(flight.FlightNumber) >= 0 {
		return nil, ErrDuplicate
	}

	added := m.stamp()
	m.nextID++
	t := models.TrackedFlight{ID: m.nextID, FlightNumber: flight.FlightNumber, DateAdded: added}
	m.tracked = append(m.tracked, t)

	flight.LastUpdated = &added
	m.storeFlight(flight)

	log.Printf("Database: Now tracking %s (id %d, in memory)", flight.FlightNumber, t.ID)
	t.Details = flight.Clone()
	return &t, nil
}

func (m *MemoryStore) RemoveTracked(ctx context.Context, flightNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(flightNumber)
	if i < 0 {
		return false, nil
	}
	m.tracked = append(m.tracked[:i], m.tracked[i+1:]...)
	delete(m.flights, flightNumber)
	log.Printf("Database: Stopped tracking %s (in memory)", flightNumber)
	return true, nil
}

func (m *MemoryStore) ListTracked(ctx context.Context) ([]models.TrackedFlight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.TrackedFlight, 0, len(m.tracked))
	for _, t := range m.tracked {
		t.Details = m.flights[t.FlightNumber].Clone()
		out = append(out, t)
	}
	return out, nil
}

func (m *MemoryStore) GetTracked(ctx context.Context, flightNumber string) (*models.TrackedFlight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(flightNumber)
	if i < 0 {
		return nil, nil
	}
	t := m.tracked[i]
	t.Details = m.flights[flightNumber].Clone()
	return &t, nil
}

func (m *MemoryStore) CountTracked(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tracked), nil
}

func (m *MemoryStore) GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flights[flightNumber].Clone(), nil
}

func (m *MemoryStore) SaveFlight(ctx context.Context, flight *models.Flight) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	updated := m.stamp()
	flight.LastUpdated = &updated
	m.storeFlight(flight)
	return nil
}

// storeFlight keeps the id of an existing row, like the MySQL upsert.
func (m *MemoryStore) storeFlight(flight *models.Flight) {
	stored := flight.Clone()
	if prev, ok := m.flights[flight.FlightNumber]; ok {
		stored.ID = prev.ID
	} else {
		m.nextFlightID++
		stored.ID = m.nextFlightID
	}
	m.flights[flight.FlightNumber] = stored
}

func (m *MemoryStore) indexOf(flightNumber string) int {
	for i, t := range m.tracked {
		if t.FlightNumber == flightNumber {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) stamp() time.Time {
	return m.now().UTC().Truncate(time.Second)
}
