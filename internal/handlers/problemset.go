package handlers

import (
	"context"
	"net/http"

	logpkg "github.com/benvon/tle-advisor/internal/logger"
	"github.com/benvon/tle-advisor/internal/models"
	"github.com/benvon/tle-advisor/internal/request"
	"github.com/benvon/tle-advisor/internal/services/codeforces"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ProblemsetSource returns the judge's full problem catalog
type ProblemsetSource interface {
	Problemset(ctx context.Context) ([]models.Problem, error)
}

// ProblemsetResponse is returned by /api/problemset
type ProblemsetResponse struct {
	Problems []models.Problem `json:"problems"`
}

// ProblemsetHandler serves /api/problemset
type ProblemsetHandler struct {
	source ProblemsetSource
	limit  int
	logger *zap.Logger
}

// NewProblemsetHandler creates a problemset handler returning at most codeforces.DefaultProblemsetLimit problems
func NewProblemsetHandler(source ProblemsetSource, logger *zap.Logger) *ProblemsetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProblemsetHandler{source: source, limit: codeforces.DefaultProblemsetLimit, logger: logger}
}

// RegisterRoutes registers problemset routes on the /api router
func (h *ProblemsetHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/problemset", h.GetProblemset).Methods(http.MethodGet)
}

// GetProblemset filters the catalog by ?min=, ?max= and ?tags=a,b.
// A missing bound is 0 and an unparsable bound matches nothing.
func (h *ProblemsetHandler) GetProblemset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := codeforces.ProblemFilter{
		MinRating: codeforces.ParseRatingBound(q.Get("min")),
		MaxRating: codeforces.ParseRatingBound(q.Get("max")),
		Tags:      codeforces.ParseTags(q.Get("tags")),
		Limit:     h.limit,
	}

	problems, err := h.source.Problemset(r.Context())
	if err != nil {
		h.logger.Warn("problemset_fetch_failed",
			zap.String("error", logpkg.SanitizeError(err)),
			zap.String("request_id", request.RequestID(r)),
		)
		respondJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ProblemsetResponse{Problems: codeforces.FilterProblems(problems, filter)})
}
