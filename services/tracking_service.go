// services/tracking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gewnthar/flighttracker/database"
	"github.com/gewnthar/flighttracker/models"
)

var (
	ErrFlightNumberRequired = errors.New("flight number is required")
	ErrAlreadyTracked       = errors.New("flight is already being tracked")
	ErrTrackingLimit        = errors.New("tracking limit reached")
	ErrNotTracked           = errors.New("flight is not being tracked")
)

// LookupError wraps a failed upstream lookup so callers can tell it apart
// from storage failures.
type LookupError struct {
	FlightNumber string
	Err          error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not retrieve data for flight %s: %v", e.FlightNumber, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// FlightFetcher returns the current normalized status of a flight.
type FlightFetcher interface {
	GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error)
}

// FlightRefresher is implemented by fetchers that keep a cache and can be
// asked to skip it.
type FlightRefresher interface {
	RefreshFlight(ctx context.Context, flightNumber string) (*models.Flight, error)
}

// FlightForgetter is implemented by fetchers that can drop a cached flight.
type FlightForgetter interface {
	Forget(ctx context.Context, flightNumber string)
}

// FlightStore persists tracked flight numbers and their latest status.
type FlightStore interface {
	Ping(ctx context.Context) error
	AddTracked(ctx context.Context, flight *models.Flight) (*models.TrackedFlight, error)
	RemoveTracked(ctx context.Context, flightNumber string) (bool, error)
	ListTracked(ctx context.Context) ([]models.TrackedFlight, error)
	GetTracked(ctx context.Context, flightNumber string) (*models.TrackedFlight, error)
	CountTracked(ctx context.Context) (int, error)
	GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error)
	SaveFlight(ctx context.Context, flight *models.Flight) error
}

// TrackingService manages the small set of flights a user follows.
// Mutations are serialized so the tracking limit holds under concurrent requests.
type TrackingService struct {
	store      FlightStore
	fetcher    FlightFetcher
	maxTracked int

	mu sync.Mutex
}

func NewTrackingService(store FlightStore, fetcher FlightFetcher, maxTracked int) *TrackingService {
	return &TrackingService{store: store, fetcher: fetcher, maxTracked: maxTracked}
}

// NormalizeFlightNumber trims and upper-cases a user supplied flight number.
func NormalizeFlightNumber(flightNumber string) string {
	return strings.ToUpper(strings.TrimSpace(flightNumber))
}

func (s *TrackingService) MaxTracked() int { return s.maxTracked }

func (s *TrackingService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// List returns the tracked flights with their stored status.
func (s *TrackingService) List(ctx context.Context) ([]models.TrackedFlight, error) {
	tracked, err := s.store.ListTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tracked flights: %w", err)
	}
	return tracked, nil
}

// Add looks up flightNumber and starts tracking it.
func (s *TrackingService) Add(ctx context.Context, flightNumber string) (*models.TrackedFlight, error) {
	fn := NormalizeFlightNumber(flightNumber)
	if fn == "" {
		return nil, ErrFlightNumberRequired
	}
	log.Printf("Service: Adding flight %s", fn)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetTracked(ctx, fn)
	if err != nil {
		return nil, fmt.Errorf("checking tracked flight %s: %w", fn, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("flight %s: %w", fn, ErrAlreadyTracked)
	}

	count, err := s.store.CountTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting tracked flights: %w", err)
	}
	if count >= s.maxTracked {
		return nil, fmt.Errorf("%w: a maximum of %d flights can be tracked", ErrTrackingLimit, s.maxTracked)
	}

	flight, err := s.lookup(ctx, fn)
	if err != nil {
		return nil, err
	}

	// Stored under the number the user tracks, whatever the provider reports.
	flight.FlightNumber = fn
	tracked, err := s.store.AddTracked(ctx, flight)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("flight %s: %w", fn, ErrAlreadyTracked)
		}
		return nil, fmt.Errorf("saving tracked flight %s: %w", fn, err)
	}

	log.Printf("Service: Now tracking %s (%d of %d)", fn, count+1, s.maxTracked)
	return tracked, nil
}

// Remove stops tracking flightNumber.
func (s *TrackingService) Remove(ctx context.Context, flightNumber string) error {
	fn := NormalizeFlightNumber(flightNumber)
	if fn == "" {
		return ErrFlightNumberRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.store.RemoveTracked(ctx, fn)
	if err != nil {
		return fmt.Errorf("removing flight %s: %w", fn, err)
	}
	if !removed {
		return fmt.Errorf("flight %s: %w", fn, ErrNotTracked)
	}
	if forgetter, ok := s.fetcher.(FlightForgetter); ok {
		forgetter.Forget(ctx, fn)
	}
	log.Printf("Service: Removed flight %s", fn)
	return nil
}

// Refresh refetches a tracked flight and stores the merged result.
func (s *TrackingService) Refresh(ctx context.Context, flightNumber string) (*models.Flight, error) {
	fn := NormalizeFlightNumber(flightNumber)
	if fn == "" {
		return nil, ErrFlightNumberRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tracked, err := s.store.GetTracked(ctx, fn)
	if err != nil {
		return nil, fmt.Errorf("checking tracked flight %s: %w", fn, err)
	}
	if tracked == nil {
		return nil, fmt.Errorf("flight %s: %w", fn, ErrNotTracked)
	}
	return s.refreshLocked(ctx, *tracked)
}

// RefreshAll refreshes every tracked flight in turn. A flight that fails is
// logged and left out of the result; the rest are still refreshed.
func (s *TrackingService) RefreshAll(ctx context.Context) ([]models.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracked, err := s.store.ListTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tracked flights: %w", err)
	}

	refreshed := make([]models.Flight, 0, len(tracked))
	for _, t := range tracked {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		flight, err := s.refreshLocked(ctx, t)
		if err != nil {
			log.Printf("WARN Service: Failed to refresh %s: %v", t.FlightNumber, err)
			continue
		}
		refreshed = append(refreshed, *flight)
	}
	log.Printf("Service: Refreshed %d of %d tracked flights", len(refreshed), len(tracked))
	return refreshed, nil
}

// Details returns the stored status of flightNumber if there is one, and
// otherwise a live lookup that is not saved.
func (s *TrackingService) Details(ctx context.Context, flightNumber string) (*models.Flight, error) {
	fn := NormalizeFlightNumber(flightNumber)
	if fn == "" {
		return nil, ErrFlightNumberRequired
	}

	stored, err := s.store.GetFlight(ctx, fn)
	if err != nil {
		log.Printf("WARN Service: Reading stored details for %s failed, falling back to live lookup: %v", fn, err)
	} else if stored != nil {
		log.Printf("Service: Found details for %s in database.", fn)
		return stored, nil
	}

	log.Printf("Service: Details for %s not stored. Fetching live...", fn)
	return s.lookup(ctx, fn)
}

func (s *TrackingService) refreshLocked(ctx context.Context, tracked models.TrackedFlight) (*models.Flight, error) {
	fresh, err := s.refetch(ctx, tracked.FlightNumber)
	if err != nil {
		return nil, err
	}

	flight := tracked.Details
	if flight == nil {
		flight = fresh
	} else {
		flight.MergeFrom(fresh)
	}
	flight.FlightNumber = tracked.FlightNumber

	if err := s.store.SaveFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("saving flight %s: %w", tracked.FlightNumber, err)
	}
	return flight, nil
}

func (s *TrackingService) lookup(ctx context.Context, fn string) (*models.Flight, error) {
	flight, err := s.fetcher.GetFlight(ctx, fn)
	return lookupResult(fn, flight, err)
}

// refetch is lookup without any cached copy, for refreshes.
func (s *TrackingService) refetch(ctx context.Context, fn string) (*models.Flight, error) {
	refresher, ok := s.fetcher.(FlightRefresher)
	if !ok {
		return s.lookup(ctx, fn)
	}
	flight, err := refresher.RefreshFlight(ctx, fn)
	return lookupResult(fn, flight, err)
}

func lookupResult(fn string, flight *models.Flight, err error) (*models.Flight, error) {
	if err != nil {
		log.Printf("ERROR Service: Lookup for %s failed: %v", fn, err)
		return nil, &LookupError{FlightNumber: fn, Err: err}
	}
	return flight, nil
}
