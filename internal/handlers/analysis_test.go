package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benvon/tle-advisor/internal/curated"
	"github.com/benvon/tle-advisor/internal/models"
	"github.com/benvon/tle-advisor/internal/services/analysis"
	"github.com/gorilla/mux"
)

type fakeFetcher struct {
	problems []models.Problem
	err      error
	calls    int
}

func (f *fakeFetcher) SolvedProblems(context.Context, string) ([]models.Problem, error) {
	f.calls++
	return f.problems, f.err
}

func intPtr(v int) *int { return &v }

func newAnalysisRouter(t *testing.T, fetcher *fakeFetcher) *mux.Router {
	t.Helper()
	catalog, err := curated.Default()
	if err != nil {
		t.Fatalf("curated.Default() error = %v", err)
	}
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	NewAnalysisHandler(analysis.NewService(fetcher, catalog), nil).RegisterRoutes(api)
	return r
}

func TestGetAnalysis(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{problems: []models.Problem{
		{ContestID: 1, Index: "A", Rating: intPtr(1200), Tags: []string{"dp"}},
		{ContestID: 2, Index: "B", Rating: intPtr(1400), Tags: []string{"dp", "greedy"}},
	}}
	router := newAnalysisRouter(t, fetcher)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/analysis?handle=tourist", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	wantPrefix := `{"handle":"tourist","stats":{"tagStats":{"dp":{"count":2,"ratingSum":2600,"ratings":[1200,1400]},"greedy":{"count":1,"ratingSum":1400,"ratings":[1400]}},"weakTopics":[{"tag":"dp","count":2},{"tag":"greedy","count":1}]},"suggestions":[`
	if !strings.HasPrefix(body, wantPrefix) {
		t.Errorf("Unexpected body:\n%s", body)
	}

	var decoded struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(decoded.Suggestions) != 2 || decoded.Suggestions[0].Tag != "dp" || len(decoded.Suggestions[0].Problems) != 3 {
		t.Errorf("Unexpected suggestions %+v", decoded.Suggestions)
	}
}

func TestGetAnalysis_NoSolves(t *testing.T) {
	t.Parallel()

	router := newAnalysisRouter(t, &fakeFetcher{problems: []models.Problem{}})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/analysis?handle=newbie", nil))

	want := `{"handle":"newbie","stats":{"tagStats":{},"weakTopics":[]},"suggestions":[]}` + "\n"
	if w.Body.String() != want {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}

func TestGetAnalysis_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		fetchErr   error
		wantStatus int
		wantError  string
		wantFetch  bool
	}{
		{name: "missing handle", query: "", wantStatus: http.StatusBadRequest, wantError: "Missing handle"},
		{name: "blank handle", query: "?handle=%20%20", wantStatus: http.StatusBadRequest, wantError: "Missing handle"},
		{name: "invalid handle", query: "?handle=a%26count%3D1", wantStatus: http.StatusBadRequest},
		{
			name:       "upstream failure",
			query:      "?handle=ghost",
			fetchErr:   errors.New("codeforces user.status failed: handle: User with handle ghost not found"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "failed to fetch submissions: codeforces user.status failed: handle: User with handle ghost not found",
			wantFetch:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fetcher := &fakeFetcher{err: tt.fetchErr}
			router := newAnalysisRouter(t, fetcher)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/api/analysis"+tt.query, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Error == "" {
				t.Error("Expected error message")
			}
			if tt.wantError != "" && body.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, body.Error)
			}
			if (fetcher.calls > 0) != tt.wantFetch {
				t.Errorf("Expected fetch=%v, got %d calls", tt.wantFetch, fetcher.calls)
			}
		})
	}
}

func TestGetAnalysis_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newAnalysisRouter(t, &fakeFetcher{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/analysis?handle=tourist", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}
