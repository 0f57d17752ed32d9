// handlers/airport_handler.go
package handlers

import (
	"net/http"

	"github.com/gewnthar/flighttracker/airports"
	"github.com/gewnthar/flighttracker/models"
)

type airportResponse struct {
	models.APIResponse
	Airport airports.Airport `json:"airport"`
}

type airportCodesResponse struct {
	models.APIResponse
	Codes []string `json:"codes"`
}

// AirportHandler exposes the airport coordinate table used for fallbacks.
type AirportHandler struct {
	table *airports.Table
}

func NewAirportHandler(table *airports.Table) *AirportHandler {
	return &AirportHandler{table: table}
}

// ListAirports handles GET /api/airports.
func (h *AirportHandler) ListAirports(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	codes := h.table.Codes()
	if codes == nil {
		codes = []string{}
	}
	respondWithJSON(w, http.StatusOK, airportCodesResponse{
		APIResponse: models.APIResponse{Success: true},
		Codes:       codes,
	})
}

// GetAirport handles GET /api/airports/{code}.
func (h *AirportHandler) GetAirport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	code := pathParam(r, "/api/airports/")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/airports/{code}", "")
		return
	}

	airport, ok := h.table.Airport(code)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Airport not found", "")
		return
	}
	respondWithJSON(w, http.StatusOK, airportResponse{
		APIResponse: models.APIResponse{Success: true},
		Airport:     airport,
	})
}
