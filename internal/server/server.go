// Package server exposes stored pipeline results over a small read-only
// HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
	"github.com/billingtt/ppol670-spatial/internal/store"
)

// Options carries the optional boundary layer. Without polygons the GeoJSON
// endpoint answers 404; the run and table endpoints only need the store.
type Options struct {
	Polygons []*geometry.Polygon
	Registry *crs.Registry
}

// Server serves runs and aggregate tables from a results store.
type Server struct {
	store    store.Store
	polygons []*geometry.Polygon
	reg      *crs.Registry
}

// New creates a Server over the given store.
func New(st store.Store, opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = crs.Default()
	}
	return &Server{store: st, polygons: opts.Polygons, reg: reg}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/runs/{id}/table.csv", s.handleRunTable)
	r.Get("/table.csv", s.handleLatestTable)
	r.Get("/layers/boundaries.geojson", s.handleBoundaries)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// latestComplete returns the most recent complete run, or nil when none
// has finished yet.
func (s *Server) latestComplete(r *http.Request) (*store.Run, error) {
	runs, err := s.store.ListRuns(r.Context(), store.RunFilter{
		Status: store.RunStatusComplete,
		Limit:  1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "server: list complete runs")
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
