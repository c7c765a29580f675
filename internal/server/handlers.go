package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/export"
	"github.com/billingtt/ppol670-spatial/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{Status: store.RunStatus(r.URL.Query().Get("status"))}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filter.Offset = n
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		if eris.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		zap.L().Error("server: get run", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get run failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunTable(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if _, err := s.store.GetRun(r.Context(), runID); err != nil {
		if eris.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		zap.L().Error("server: get run", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get run failed")
		return
	}
	s.serveTable(w, r, runID)
}

// handleLatestTable serves the table of the most recent complete run.
func (s *Server) handleLatestTable(w http.ResponseWriter, r *http.Request) {
	run, err := s.latestComplete(r)
	if err != nil {
		zap.L().Error("server: latest run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "no complete runs")
		return
	}
	s.serveTable(w, r, run.ID)
}

func (s *Server) serveTable(w http.ResponseWriter, r *http.Request, runID string) {
	rows, err := s.store.GetRows(r.Context(), runID)
	if err != nil {
		zap.L().Error("server: get rows", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get rows failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	if err := export.WriteCSV(w, rows); err != nil {
		zap.L().Error("server: write table", zap.String("run_id", runID), zap.Error(err))
	}
}

// handleBoundaries serves the boundary layer as GeoJSON, with the latest
// complete run's aggregates as feature properties when one exists.
func (s *Server) handleBoundaries(w http.ResponseWriter, r *http.Request) {
	if len(s.polygons) == 0 {
		writeError(w, http.StatusNotFound, "no boundary layer loaded")
		return
	}

	var rows []export.Row
	run, err := s.latestComplete(r)
	if err != nil {
		zap.L().Error("server: latest run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if run != nil {
		rows, err = s.store.GetRows(r.Context(), run.ID)
		if err != nil {
			zap.L().Error("server: get rows", zap.String("run_id", run.ID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "get rows failed")
			return
		}
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if err := export.WriteGeoJSON(w, s.polygons, rows, s.reg); err != nil {
		zap.L().Error("server: write geojson", zap.Error(err))
	}
}
