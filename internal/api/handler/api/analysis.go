// internal/api/handler/api/analysis.go
package api

import (
	"context"
	"net/http"

	"github.com/newthinker/tradebot/internal/api/response"
	"github.com/newthinker/tradebot/internal/core"
)

var errAnalysisRunning = &core.Error{Code: "ANALYSIS_RUNNING", Message: "an analysis cycle is already running"}

// AnalysisApp defines the interface needed from app.App.
type AnalysisApp interface {
	// Trigger starts one analysis cycle in the background and reports
	// false when a cycle is already in progress.
	Trigger(ctx context.Context) bool
}

// AnalysisHandler handles analysis trigger API requests.
type AnalysisHandler struct {
	app  AnalysisApp
	base context.Context
}

// NewAnalysisHandler creates a new analysis handler. Triggered cycles run
// under base so they outlive the request.
func NewAnalysisHandler(base context.Context, app AnalysisApp) *AnalysisHandler {
	return &AnalysisHandler{app: app, base: base}
}

// Trigger starts an analysis cycle.
func (h *AnalysisHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if !h.app.Trigger(h.base) {
		response.FromError(w, errAnalysisRunning)
		return
	}
	response.JSON(w, http.StatusAccepted, map[string]any{"triggered": true})
}
