// models/api_models.go
package models

// AddFlightRequest is the expected JSON body for the /api/flights/add endpoint.
type AddFlightRequest struct {
	FlightNumber string `json:"flight_number"` // e.g., "BA117"
}

// APIResponse is the envelope shared by every /api endpoint.
// Error responses carry only these fields.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// TrackedFlightsResponse answers GET /api/flights.
type TrackedFlightsResponse struct {
	APIResponse
	Flights []TrackedFlight `json:"flights"`
}

// FlightResponse answers the single-flight endpoints (add, update, details).
type FlightResponse struct {
	APIResponse
	Flight *Flight `json:"flight"`
}

// FlightsResponse answers GET /api/flights/update-all.
type FlightsResponse struct {
	APIResponse
	Flights []Flight `json:"flights"`
}
