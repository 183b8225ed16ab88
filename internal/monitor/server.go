// Package monitor serves the health, metrics and digest status endpoints.
package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/logger"
	"github.com/dynamicdevices/audionews/internal/metrics"
	"github.com/dynamicdevices/audionews/internal/storage"
)

// Server exposes run state over HTTP while the schedule daemon is up.
type Server struct {
	router  *mux.Router
	history *storage.RunHistory
	root    string
}

func NewServer(history *storage.RunHistory, outputRoot string) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		history: history,
		root:    outputRoot,
	}
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	s.router.HandleFunc("/digests/{language}/latest", s.handleLatestDigest).Methods(http.MethodGet)
	return s
}

// Handler returns the routed handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the monitoring endpoints.
func (s *Server) ListenAndServe(port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Info("Monitoring server listening", "port", port)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	code := http.StatusOK
	if healthy, _ := stats["is_healthy"].(bool); !healthy {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}); err != nil {
		logger.Error("Monitoring response failed", "error", err)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()
	if s.history != nil {
		for k, v := range s.history.Stats() {
			stats[k] = v
		}
	}
	writeJSON(w, stats)
}

// handleLatestDigest reports the newest published digest for a language,
// from the ledger when available and from the output tree otherwise.
func (s *Server) handleLatestDigest(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["language"]

	loc, err := config.GetLocale(code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if s.history != nil {
		if rec, ok := s.history.Latest(code); ok {
			writeJSON(w, rec)
			return
		}
	}

	paths := storage.DigestPaths(s.root, loc, time.Now())
	if !storage.DigestExists(paths) {
		http.Error(w, "no digest published today", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]interface{}{
		"language":    code,
		"text_path":   paths.Text,
		"audio_path":  paths.Audio,
		"audio_bytes": storage.AudioSize(paths),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Monitoring response failed", "error", err)
	}
}
