package handlers

import (
	"context"
	"errors"
	"net/http"

	logpkg "github.com/benvon/tle-advisor/internal/logger"
	"github.com/benvon/tle-advisor/internal/models"
	"github.com/benvon/tle-advisor/internal/request"
	"github.com/benvon/tle-advisor/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Analyzer runs the full analysis pipeline for a handle
type Analyzer interface {
	Analyze(ctx context.Context, handle string) (*models.AnalysisResult, error)
}

// AnalysisHandler serves /api/analysis
type AnalysisHandler struct {
	analyzer Analyzer
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyzer Analyzer, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{analyzer: analyzer, logger: logger}
}

// RegisterRoutes registers analysis routes on the /api router
func (h *AnalysisHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/analysis", h.GetAnalysis).Methods(http.MethodGet)
}

// GetAnalysis returns tag statistics, weak topics and curated suggestions for ?handle=
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	handle, ok := handleParam(w, r.URL.Query().Get("handle"))
	if !ok {
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), handle)
	if err != nil {
		h.logger.Warn("analysis_failed",
			zap.String("handle", logpkg.SanitizeHandle(handle)),
			zap.String("error", logpkg.SanitizeError(err)),
			zap.String("request_id", request.RequestID(r)),
		)
		respondJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleParam validates a handle and writes the 400 response when it is unusable
func handleParam(w http.ResponseWriter, raw string) (string, bool) {
	handle, err := validation.ValidateHandle(raw)
	if err != nil {
		if errors.Is(err, validation.ErrHandleRequired) {
			respondJSONError(w, http.StatusBadRequest, "Missing handle")
			return "", false
		}
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return handle, true
}
