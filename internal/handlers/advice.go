package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	logpkg "github.com/benvon/tle-advisor/internal/logger"
	"github.com/benvon/tle-advisor/internal/models"
	"github.com/benvon/tle-advisor/internal/request"
	"github.com/benvon/tle-advisor/internal/services/ai"
	"github.com/benvon/tle-advisor/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AdviceRequest is the POST body of /api/advice. At most 50 topics are accepted.
type AdviceRequest struct {
	Handle string               `json:"handle"`
	Weak   []string             `json:"weak" validate:"max=50,dive,required,max=64"`
	Topics []models.TopicDetail `json:"topics" validate:"max=50,dive"`
}

// AdviceResponse is returned by /api/advice
type AdviceResponse struct {
	Suggestion string   `json:"suggestion"`
	Handle     string   `json:"handle"`
	Topics     []string `json:"topics"`
}

// AdviceHandler serves /api/advice
type AdviceHandler struct {
	provider ai.AIProvider
	logger   *zap.Logger
}

// NewAdviceHandler creates an advice handler. A nil provider answers every request with 500.
func NewAdviceHandler(provider ai.AIProvider, logger *zap.Logger) *AdviceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdviceHandler{provider: provider, logger: logger}
}

// RegisterRoutes registers advice routes on the /api router
func (h *AdviceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/advice", h.GetAdvice).Methods(http.MethodGet)
	r.HandleFunc("/advice", h.PostAdvice).Methods(http.MethodPost)
}

// GetAdvice reads ?handle=, ?weak=a,b and the optional ?topics=<json array>
func (h *AdviceHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := AdviceRequest{
		Handle: q.Get("handle"),
		Weak:   splitList(q.Get("weak")),
	}
	if raw := strings.TrimSpace(q.Get("topics")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Topics); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Invalid topics parameter")
			return
		}
	}
	h.generate(w, r, req)
}

// PostAdvice reads an AdviceRequest body
func (h *AdviceHandler) PostAdvice(w http.ResponseWriter, r *http.Request) {
	var req AdviceRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.generate(w, r, req)
}

func (h *AdviceHandler) generate(w http.ResponseWriter, r *http.Request, req AdviceRequest) {
	handle, ok := handleParam(w, req.Handle)
	if !ok {
		return
	}

	req.Weak = cleanTopics(req.Weak)
	for i := range req.Topics {
		req.Topics[i].Tag = validation.SanitizeText(req.Topics[i].Tag)
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, validation.FormatErrors(err))
		return
	}

	plan := ai.PlanRequest{Handle: handle, WeakTopics: req.Weak, Topics: req.Topics}
	topics := topicNames(plan)

	if h.provider == nil {
		h.logger.Error("advice_unavailable",
			zap.String("reason", "no AI provider configured"),
			zap.String("request_id", request.RequestID(r)),
		)
		respondJSONError(w, http.StatusInternalServerError, ai.ClientMessage(ai.ErrNotConfigured))
		return
	}

	suggestion, err := h.provider.StudyPlan(r.Context(), plan)
	if err != nil {
		status := ai.StatusForError(err)
		h.logger.Warn("advice_failed",
			zap.String("provider", h.provider.Name()),
			zap.String("handle", logpkg.SanitizeHandle(handle)),
			zap.Int("status_code", status),
			zap.String("error", logpkg.SanitizeError(err)),
			zap.String("request_id", request.RequestID(r)),
		)
		respondJSONError(w, status, ai.ClientMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, AdviceResponse{
		Suggestion: suggestion,
		Handle:     handle,
		Topics:     topics,
	})
}

// topicNames lists the weak tags the plan was built for
func topicNames(plan ai.PlanRequest) []string {
	if len(plan.Topics) == 0 {
		return append([]string{}, plan.WeakTopics...)
	}
	names := make([]string, 0, len(plan.Topics))
	for _, topic := range plan.Topics {
		names = append(names, topic.Tag)
	}
	return names
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// cleanTopics sanitizes tag names and drops blanks
func cleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		if topic = validation.SanitizeText(topic); topic != "" {
			out = append(out, topic)
		}
	}
	return out
}
