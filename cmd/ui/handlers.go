package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"stock-backtest-go/internal/backtest"
	"stock-backtest-go/internal/export"
)

// APIHandler holds dependencies for the API endpoints. It serves the
// latest exported result record, re-read on each request so a new run
// is picked up without a restart.
type APIHandler struct {
	log        *zap.Logger
	resultPath string
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, resultPath string) *APIHandler {
	return &APIHandler{log: log, resultPath: resultPath}
}

// TradesHandler returns the trade ledger of the latest run.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	result, err := export.ReadResult(h.resultPath)
	if err != nil {
		h.log.Error("Failed to load result record", zap.Error(err))
		http.Error(w, "No result available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.Trades)
}

// summaryResponse is the structure for the /api/summary endpoint.
type summaryResponse struct {
	RunID       string           `json:"run_id"`
	GeneratedAt string           `json:"generated_at"`
	Summary     backtest.Summary `json:"summary"`
}

// SummaryHandler returns the summary of the latest run. The metrics are
// re-aggregated from the embedded trades rather than trusting the stored
// summary, which keeps the record honest.
func (h *APIHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	result, err := export.ReadResult(h.resultPath)
	if err != nil {
		h.log.Error("Failed to load result record", zap.Error(err))
		http.Error(w, "No result available", http.StatusNotFound)
		return
	}

	response := summaryResponse{
		RunID:       result.Meta.RunID,
		GeneratedAt: result.Meta.GeneratedAt.Format(time.RFC3339),
		Summary:     backtest.Summarize(result.Trades),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
