package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/session"
)

// ExportHandler serves the current analysis as a CSV download.
type ExportHandler struct {
	logger  *common.Logger
	session *session.AgentSession
	now     func() time.Time
}

// NewExportHandler creates a new export handler.
func NewExportHandler(logger *common.Logger, sess *session.AgentSession) *ExportHandler {
	return &ExportHandler{logger: logger, session: sess, now: time.Now}
}

// ServeHTTP handles GET /api/export. The filename is derived from the export
// time, not the analysis time.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	data, filename, err := h.session.ExportCSV(h.now())
	if errors.Is(err, session.ErrNoAnalysis) {
		WriteError(w, http.StatusNotFound, "no analysis result available yet")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ChartHandler serves the current analysis chart series.
type ChartHandler struct {
	logger  *common.Logger
	session *session.AgentSession
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(logger *common.Logger, sess *session.AgentSession) *ChartHandler {
	return &ChartHandler{logger: logger, session: sess}
}

// ServeHTTP handles GET /api/chart: index-aligned symbol/score points.
func (h *ChartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	points, err := h.session.ChartPoints()
	if errors.Is(err, session.ErrNoAnalysis) {
		WriteError(w, http.StatusNotFound, "no analysis result available yet")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"points": points,
	})
}
