// handlers/respond.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gewnthar/flighttracker/models"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"success":false,"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error envelope. details is omitted when empty.
func respondWithError(w http.ResponseWriter, code int, message, details string) {
	if details != "" {
		log.Printf("API Error %d: %s (%s)", code, message, details)
	} else {
		log.Printf("API Error %d: %s", code, message)
	}
	respondWithJSON(w, code, models.APIResponse{Success: false, Error: message, Details: details})
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		respondWithError(w, http.StatusMethodNotAllowed, "Only "+method+" method is allowed", "")
		return false
	}
	return true
}

// pathParam returns the single path segment following prefix, or "" if the
// path has no segment there or more than one.
func pathParam(r *http.Request, prefix string) string {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
