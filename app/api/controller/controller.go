package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/eed-project/eedx/app/api/types"
)

// Controller holds the handlers for the read API and the ingestion boundary.
type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{App: app}
}

// NewRouter returns a router with all routes mounted.
func (c *Controller) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", c.HandleHealth).Methods("GET")
	r.Handle("/metrics", c.App.Metrics.Handler()).Methods("GET")

	r.HandleFunc("/api/countries", c.HandleCountries).Methods("GET")
	r.HandleFunc("/api/countries/{key}", c.HandleCountry).Methods("GET")
	r.HandleFunc("/api/countries/{key}/stats", c.HandleCountryStats).Methods("GET")
	r.HandleFunc("/api/indicators", c.HandleIndicators).Methods("GET")
	r.HandleFunc("/api/query", c.HandleQuery).Methods("GET")

	r.HandleFunc("/api/ingest", c.HandleIngestTrigger).Methods("POST")
	r.HandleFunc("/api/ingest/status", c.HandleIngestStatus).Methods("GET")

	return r
}

// WithCORS wraps a handler with permissive CORS headers.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodPost+", "+http.MethodOptions)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
