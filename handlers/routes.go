// handlers/routes.go
package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gewnthar/flighttracker/airports"
	"github.com/gewnthar/flighttracker/services"
)

// NewRouter wires every endpoint onto a fresh mux.
func NewRouter(svc *services.TrackingService, table *airports.Table) http.Handler {
	flights := NewFlightHandler(svc)
	system := NewSystemHandler(svc)
	airportHandler := NewAirportHandler(table)

	mux := http.NewServeMux()
	mux.HandleFunc("/", system.Index)
	mux.HandleFunc("/api/health", system.Health)

	mux.HandleFunc("/api/flights", flights.ListFlights)
	mux.HandleFunc("/api/flights/add", flights.AddFlight)
	mux.HandleFunc("/api/flights/update-all", flights.UpdateAllFlights)
	mux.HandleFunc("/api/flights/remove/", flights.RemoveFlight)
	mux.HandleFunc("/api/flights/update/", flights.UpdateFlight)
	mux.HandleFunc("/api/flights/details/", flights.FlightDetails)

	mux.HandleFunc("/api/airports", airportHandler.ListAirports)
	mux.HandleFunc("/api/airports/", airportHandler.GetAirport)

	return logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("Handler: %s %s %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
