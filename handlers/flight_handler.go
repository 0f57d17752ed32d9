// handlers/flight_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gewnthar/flighttracker/models"
	"github.com/gewnthar/flighttracker/services"
)

const maxRequestBody = 1 << 20

// FlightHandler serves the /api/flights endpoints.
type FlightHandler struct {
	svc *services.TrackingService
}

func NewFlightHandler(svc *services.TrackingService) *FlightHandler {
	return &FlightHandler{svc: svc}
}

// ListFlights handles GET /api/flights.
func (h *FlightHandler) ListFlights(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	tracked, err := h.svc.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve flight data", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, models.TrackedFlightsResponse{
		APIResponse: models.APIResponse{Success: true},
		Flights:     tracked,
	})
}

// AddFlight handles POST /api/flights/add with body {"flight_number": "BA117"}.
func (h *FlightHandler) AddFlight(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AddFlightRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tracked, err := h.svc.Add(r.Context(), req.FlightNumber)
	if err != nil {
		var lookupErr *services.LookupError
		switch {
		case errors.Is(err, services.ErrFlightNumberRequired):
			respondWithError(w, http.StatusBadRequest, "Flight number is required", "")
		case errors.Is(err, services.ErrAlreadyTracked):
			respondWithError(w, http.StatusBadRequest, "Flight is already being tracked", "")
		case errors.Is(err, services.ErrTrackingLimit):
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("Maximum limit of %d flights reached. Remove a flight to add a new one.", h.svc.MaxTracked()), "")
		case errors.As(err, &lookupErr):
			respondWithError(w, http.StatusNotFound, lookupErr.Err.Error(), "")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to add flight", err.Error())
		}
		return
	}

	log.Printf("Handler: Added flight %s", tracked.FlightNumber)
	respondWithJSON(w, http.StatusCreated, models.FlightResponse{
		APIResponse: models.APIResponse{Success: true, Message: "Flight added successfully"},
		Flight:      tracked.Details,
	})
}

// RemoveFlight handles DELETE /api/flights/remove/{flight_number}.
func (h *FlightHandler) RemoveFlight(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}
	flightNumber := pathParam(r, "/api/flights/remove/")
	if flightNumber == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/flights/remove/{flight_number}", "")
		return
	}

	if err := h.svc.Remove(r.Context(), flightNumber); err != nil {
		if errors.Is(err, services.ErrNotTracked) || errors.Is(err, services.ErrFlightNumberRequired) {
			respondWithError(w, http.StatusNotFound, "Flight not found", "")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to remove flight", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Flight removed successfully"})
}

// UpdateFlight handles GET /api/flights/update/{flight_number}.
func (h *FlightHandler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	flightNumber := pathParam(r, "/api/flights/update/")
	if flightNumber == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/flights/update/{flight_number}", "")
		return
	}

	flight, err := h.svc.Refresh(r.Context(), flightNumber)
	if err != nil {
		var lookupErr *services.LookupError
		switch {
		case errors.Is(err, services.ErrNotTracked), errors.Is(err, services.ErrFlightNumberRequired):
			respondWithError(w, http.StatusNotFound, "Flight not found", "")
		case errors.As(err, &lookupErr):
			respondWithError(w, http.StatusBadRequest, lookupErr.Err.Error(), "")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update flight data", err.Error())
		}
		return
	}
	respondWithJSON(w, http.StatusOK, models.FlightResponse{
		APIResponse: models.APIResponse{Success: true},
		Flight:      flight,
	})
}

// UpdateAllFlights handles GET /api/flights/update-all.
func (h *FlightHandler) UpdateAllFlights(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	flights, err := h.svc.RefreshAll(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update flights", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, models.FlightsResponse{
		APIResponse: models.APIResponse{
			Success: true,
			Message: fmt.Sprintf("%d flights updated successfully", len(flights)),
		},
		Flights: flights,
	})
}

// FlightDetails handles GET /api/flights/details/{flight_number}.
func (h *FlightHandler) FlightDetails(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	flightNumber := pathParam(r, "/api/flights/details/")
	if flightNumber == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/flights/details/{flight_number}", "")
		return
	}

	flight, err := h.svc.Details(r.Context(), flightNumber)
	if err != nil {
		var lookupErr *services.LookupError
		if errors.As(err, &lookupErr) || errors.Is(err, services.ErrFlightNumberRequired) {
			respondWithError(w, http.StatusNotFound, "Flight not found", "")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve flight details", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, models.FlightResponse{
		APIResponse: models.APIResponse{Success: true},
		Flight:      flight,
	})
}
