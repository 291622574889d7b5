package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ReportSource supplies the latest report document.
type ReportSource interface {
	LatestJSON() ([]byte, error)
}

type HealthServer struct {
	monitor *Monitor
	reports ReportSource
	port    string
	server  *http.Server
}

// NewHealthServer serves health and status for monitor. When reports is not
// nil the latest report is also served at /data/weather.json.
func NewHealthServer(monitor *Monitor, reports ReportSource, port string) *HealthServer {
	if port == "" {
		port = "8080"
	}
	return &HealthServer{
		monitor: monitor,
		reports: reports,
		port:    port,
	}
}

// Handler builds the router.
func (h *HealthServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthHandler)
	r.Get("/status", h.statusHandler)
	if h.reports != nil {
		r.Get("/data/weather.json", h.reportHandler)
	}
	return r
}

func (h *HealthServer) Start() {
	h.server = &http.Server{
		Addr:              ":" + h.port,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Health check server starting on port %s", h.port)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Health server error: %v", err)
		}
	}()
}

// Shutdown stops a started server.
func (h *HealthServer) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", h.monitor.GetStatusSummary())
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Service unhealthy - %s", h.monitor.GetStatusSummary())
	}
}

func (h *HealthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s", h.monitor.GetStatusSummary())
}

func (h *HealthServer) reportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := h.reports.LatestJSON()
	if err != nil {
		http.Error(w, "no report available yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
