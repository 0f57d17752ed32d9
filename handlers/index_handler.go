// handlers/index_handler.go
package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gewnthar/flighttracker/models"
	"github.com/gewnthar/flighttracker/services"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	},
	"position": func(lat, lon *float64) string {
		if lat == nil || lon == nil {
			return "-"
		}
		return fmt.Sprintf("%.4f, %.4f", *lat, *lon)
	},
	"timestamp": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
}).ParseFS(templateFS, "templates/index.html"))

type indexPage struct {
	Flights    []models.TrackedFlight
	MaxTracked int
	Full       bool
}

// SystemHandler serves the index page and the health check.
type SystemHandler struct {
	svc *services.TrackingService
}

func NewSystemHandler(svc *services.TrackingService) *SystemHandler {
	return &SystemHandler{svc: svc}
}

// Index handles GET /.
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tracked, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("ERROR Handler: Listing flights for index page: %v", err)
		http.Error(w, "failed to load tracked flights", http.StatusInternalServerError)
		return
	}

	page := indexPage{
		Flights:    tracked,
		MaxTracked: h.svc.MaxTracked(),
		Full:       len(tracked) >= h.svc.MaxTracked(),
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		log.Printf("ERROR Handler: Rendering index page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health handles GET /api/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		log.Printf("Health check failed: store ping error: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, healthResponse{Status: "error", Message: "database connection error"})
		return
	}
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "flight tracker is healthy"})
}
