package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/benvon/tle-advisor/internal/models"
	"github.com/benvon/tle-advisor/internal/services/ai"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeProvider struct {
	suggestion string
	err        error
	got        []ai.PlanRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) StudyPlan(_ context.Context, req ai.PlanRequest) (string, error) {
	p.got = append(p.got, req)
	return p.suggestion, p.err
}

func newAdviceRouter(provider ai.AIProvider, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	NewAdviceHandler(provider, logger).RegisterRoutes(api)
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return body.Error
}

func TestGetAdvice(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{suggestion: "Practice dp daily."}
	router := newAdviceRouter(provider, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/advice?handle=tourist&weak=dp,%20greedy,,", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var body AdviceResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	want := AdviceResponse{Suggestion: "Practice dp daily.", Handle: "tourist", Topics: []string{"dp", "greedy"}}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("Response mismatch (-want +got):\n%s", diff)
	}
	if len(provider.got) != 1 || provider.got[0].Handle != "tourist" {
		t.Fatalf("Unexpected provider calls %+v", provider.got)
	}
}

func TestGetAdvice_TopicsParam(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{suggestion: "plan"}
	router := newAdviceRouter(provider, nil)

	topics := url.QueryEscape(`[{"tag":"graphs","count":2},{"tag":"trees","count":1}]`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/advice?handle=Petr&topics="+topics, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	want := []models.TopicDetail{{Tag: "graphs", Count: 2}, {Tag: "trees", Count: 1}}
	if diff := cmp.Diff(want, provider.got[0].Topics); diff != "" {
		t.Errorf("Topics mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(w.Body.String(), `"topics":["graphs","trees"]`) {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}

func TestGetAdvice_EmptyWeakList(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{suggestion: "Keep going."}
	router := newAdviceRouter(provider, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/advice?handle=tourist", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"topics":[]`) {
		t.Errorf("Expected empty topics array, got %s", w.Body.String())
	}
}

func TestPostAdvice(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{suggestion: "plan"}
	router := newAdviceRouter(provider, nil)

	body := `{"handle":"tourist","weak":["dp"],"topics":[{"tag":"dp","count":3,"avgRating":1500}]}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/advice", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := provider.got[0]
	if got.Handle != "tourist" || len(got.WeakTopics) != 1 || len(got.Topics) != 1 {
		t.Fatalf("Unexpected plan request %+v", got)
	}
	if got.Topics[0].AvgRating == nil || *got.Topics[0].AvgRating != 1500 {
		t.Errorf("Expected avgRating 1500, got %v", got.Topics[0].AvgRating)
	}
}

func TestAdvice_BadRequests(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("t%d", i)
	}

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		wantErr string
	}{
		{name: "missing handle", method: "GET", target: "/api/advice?weak=dp", wantErr: "Missing handle"},
		{name: "invalid topics", method: "GET", target: "/api/advice?handle=tourist&topics=not-json", wantErr: "Invalid topics parameter"},
		{name: "invalid handle", method: "GET", target: "/api/advice?handle=bad%20handle"},
		{name: "malformed body", method: "POST", target: "/api/advice", body: `{"handle":`},
		{name: "post missing handle", method: "POST", target: "/api/advice", body: `{"weak":["dp"]}`, wantErr: "Missing handle"},
		{name: "too many topics", method: "GET", target: "/api/advice?handle=tourist&weak=" + strings.Join(tooMany, ",")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{suggestion: "plan"}
			router := newAdviceRouter(provider, nil)

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.target, nil)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			msg := decodeError(t, w)
			if tt.wantErr != "" && msg != tt.wantErr {
				t.Errorf("Expected error %q, got %q", tt.wantErr, msg)
			}
			if len(provider.got) != 0 {
				t.Error("Provider must not be called for a bad request")
			}
		})
	}
}

func TestAdvice_ProviderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid key",
			err:        &ai.APIError{Provider: "openai", StatusCode: http.StatusUnauthorized, Code: "invalid_api_key", Message: "Incorrect API key"},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "AI provider rejected the configured API key",
		},
		{
			name:       "quota",
			err:        &ai.APIError{Provider: "openai", StatusCode: http.StatusTooManyRequests, Code: "insufficient_quota", Message: "You exceeded your current quota"},
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "AI provider quota exceeded",
		},
		{
			name:       "rate limit",
			err:        &ai.APIError{Provider: "anthropic", StatusCode: http.StatusTooManyRequests, Message: "slow down"},
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "AI provider rate limit exceeded, try again later",
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("failed to generate study plan: %w", context.DeadlineExceeded),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Failed to generate AI suggestion",
		},
		{
			name:       "server error",
			err:        &ai.APIError{Provider: "gemini", StatusCode: http.StatusBadGateway, Message: "upstream sk-secret exploded"},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Failed to generate AI suggestion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.InfoLevel)
			router := newAdviceRouter(&fakeProvider{err: tt.err}, zap.New(core))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/api/advice?handle=tourist&weak=dp", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if msg := decodeError(t, w); msg != tt.wantMsg {
				t.Errorf("Expected error %q, got %q", tt.wantMsg, msg)
			}
			if logs.FilterMessage("advice_failed").Len() != 1 {
				t.Error("Expected advice_failed log entry")
			}
		})
	}
}

func TestAdvice_NoProvider(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	router := newAdviceRouter(nil, zap.New(core))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/advice?handle=tourist&weak=dp", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "AI advice is not available" {
		t.Errorf("Unexpected error %q", msg)
	}
	if logs.FilterMessage("advice_unavailable").Len() != 1 {
		t.Error("Expected advice_unavailable log entry")
	}
}
