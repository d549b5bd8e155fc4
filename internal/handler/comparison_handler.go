// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"

	"pdf-diff/internal/domain"

	"github.com/gorilla/mux"
)

// ComparisonHandler handles comparison run requests
type ComparisonHandler struct {
	runs    domain.RunService
	history domain.ResultHistory
	logger  domain.Logger
}

// NewComparisonHandler creates a new comparison handler. history may be nil,
// in which case results are served from the in-memory run summary.
func NewComparisonHandler(runs domain.RunService, history domain.ResultHistory, logger domain.Logger) *ComparisonHandler {
	return &ComparisonHandler{
		runs:    runs,
		history: history,
		logger:  logger,
	}
}

// StartComparison starts a run over two directories
func (h *ComparisonHandler) StartComparison(w http.ResponseWriter, r *http.Request) {
	var req domain.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	run, err := h.runs.Start(req)
	if err != nil {
		h.logger.Warn("Comparison run rejected", "error", err, "dir_a", req.DirA, "dir_b", req.DirB)
		writeAppError(w, err)
		return
	}

	h.logger.Info("Comparison run started", "run_id", run.ID, "mode", req.Mode)
	writeJSON(w, http.StatusAccepted, run)
}

// ListComparisons returns all known runs
func (h *ComparisonHandler) ListComparisons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runs.List())
}

// GetComparison returns one run with its summary once finished
func (h *ComparisonHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetComparisonResults returns the different documents of a run. Stored
// rows are preferred so runs from earlier server lifetimes stay readable; an
// id unknown to both the store and the registry is a 404.
func (h *ComparisonHandler) GetComparisonResults(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, runErr := h.runs.Get(id)

	if h.history != nil {
		results, err := h.history.ListByRun(r.Context(), id)
		if err == nil {
			if len(results) == 0 && runErr != nil {
				writeAppError(w, runErr)
				return
			}
			if results == nil {
				results = []domain.PairResult{}
			}
			writeJSON(w, http.StatusOK, results)
			return
		}
		h.logger.Warn("Stored results unavailable", "run_id", id, "error", err)
	}

	if runErr != nil {
		writeAppError(w, runErr)
		return
	}
	results := []domain.PairResult{}
	if run.Summary != nil {
		for _, res := range run.Summary.Results {
			if res.Different {
				results = append(results, res)
			}
		}
	}
	writeJSON(w, http.StatusOK, results)
}
