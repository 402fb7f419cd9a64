package codeforces

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benvon/tle-advisor/internal/models"
	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, nil)
}

const userStatusOK = `{
  "status": "OK",
  "result": [
    {"id": 5, "verdict": "OK", "problem": {"contestId": 1, "index": "A", "name": "Theatre Square", "tags": ["math"], "rating": 1000}},
    {"id": 4, "verdict": "WRONG_ANSWER", "problem": {"contestId": 2, "index": "B", "name": "Rejected", "tags": ["dp"], "rating": 1500}},
    {"id": 3, "verdict": "OK", "problem": {"contestId": 1, "index": "A", "name": "Theatre Square", "tags": ["math"], "rating": 1000}},
    {"id": 2, "verdict": "OK", "problem": {"contestId": 3, "index": "C", "name": "Unrated", "tags": ["greedy"]}},
    {"id": 1, "verdict": "TIME_LIMIT_EXCEEDED", "problem": {"contestId": 3, "index": "C", "name": "Unrated", "tags": ["greedy"]}}
  ]
}`

func TestSolvedProblems(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user.status" {
			t.Errorf("Expected path /user.status, got %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, userStatusOK)
	})

	problems, err := client.SolvedProblems(context.Background(), "tourist")
	if err != nil {
		t.Fatalf("SolvedProblems() error = %v", err)
	}

	for _, want := range []string{"handle=tourist", "from=1", "count=10000"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("Expected query to contain %q, got %q", want, gotQuery)
		}
	}

	want := []models.Problem{
		{ContestID: 1, Index: "A", Name: "Theatre Square", Tags: []string{"math"}, Rating: intPtr(1000)},
		{ContestID: 3, Index: "C", Name: "Unrated", Tags: []string{"greedy"}},
	}
	if diff := cmp.Diff(want, problems); diff != "" {
		t.Errorf("SolvedProblems() mismatch (-want +got):\n%s", diff)
	}
}

func TestSolvedProblems_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantComment string
		wantStatus  int
	}{
		{
			name:        "handle not found",
			status:      http.StatusBadRequest,
			body:        `{"status":"FAILED","comment":"handle: User with handle nobody not found"}`,
			wantComment: "handle: User with handle nobody not found",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:       "server error without body",
			status:     http.StatusServiceUnavailable,
			body:       `<html>down</html>`,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:        "failed status with 200",
			status:      http.StatusOK,
			body:        `{"status":"FAILED","comment":"Call limit exceeded"}`,
			wantComment: "Call limit exceeded",
			wantStatus:  http.StatusOK,
		},
		{
			name:       "malformed payload",
			status:     http.StatusOK,
			body:       `{"status":"OK","result":`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "result has wrong shape",
			status:     http.StatusOK,
			body:       `{"status":"OK","result":{"not":"a list"}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing result",
			status:     http.StatusOK,
			body:       `{"status":"OK"}`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			problems, err := client.SolvedProblems(context.Background(), "nobody")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if problems != nil {
				t.Errorf("Expected no partial result, got %v", problems)
			}

			var fetchErr *UpstreamFetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("Expected *UpstreamFetchError, got %T", err)
			}
			if fetchErr.Method != "user.status" {
				t.Errorf("Expected method user.status, got %q", fetchErr.Method)
			}
			if fetchErr.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, fetchErr.StatusCode)
			}
			if fetchErr.Comment != tt.wantComment {
				t.Errorf("Expected comment %q, got %q", tt.wantComment, fetchErr.Comment)
			}
			if tt.wantComment != "" && !strings.Contains(err.Error(), tt.wantComment) {
				t.Errorf("Expected error message to contain %q, got %q", tt.wantComment, err.Error())
			}
		})
	}
}

func TestSolvedProblems_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second, nil)
	_, err := client.SolvedProblems(context.Background(), "tourist")
	if !IsUpstreamFetchError(err) {
		t.Fatalf("Expected UpstreamFetchError, got %v", err)
	}
	var fetchErr *UpstreamFetchError
	errors.As(err, &fetchErr)
	if fetchErr.Cause == nil {
		t.Error("Expected underlying cause to be kept")
	}
}

func TestSolvedProblems_EmptyHandle(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no upstream call for empty handle")
	})
	if _, err := client.SolvedProblems(context.Background(), ""); !errors.Is(err, ErrEmptyHandle) {
		t.Errorf("Expected ErrEmptyHandle, got %v", err)
	}
}

func TestDistinctSolved(t *testing.T) {
	t.Parallel()

	sub := func(verdict string, contestID int, index string) models.Submission {
		return models.Submission{Verdict: verdict, Problem: models.Problem{ContestID: contestID, Index: index}}
	}

	tests := []struct {
		name        string
		submissions []models.Submission
		wantKeys    []models.ProblemKey
	}{
		{
			name:     "empty input",
			wantKeys: []models.ProblemKey{},
		},
		{
			name: "rejected only",
			submissions: []models.Submission{
				sub("WRONG_ANSWER", 1, "A"),
				sub("COMPILATION_ERROR", 1, "B"),
			},
			wantKeys: []models.ProblemKey{},
		},
		{
			name: "duplicates collapse keeping first-seen order",
			submissions: []models.Submission{
				sub("OK", 2, "B"),
				sub("OK", 1, "A"),
				sub("OK", 2, "B"),
				sub("WRONG_ANSWER", 3, "C"),
				sub("OK", 1, "A"),
			},
			wantKeys: []models.ProblemKey{{ContestID: 2, Index: "B"}, {ContestID: 1, Index: "A"}},
		},
		{
			name: "same index in different contests are different problems",
			submissions: []models.Submission{
				sub("OK", 1, "A"),
				sub("OK", 2, "A"),
			},
			wantKeys: []models.ProblemKey{{ContestID: 1, Index: "A"}, {ContestID: 2, Index: "A"}},
		},
		{
			name: "accepted after rejection counts",
			submissions: []models.Submission{
				sub("WRONG_ANSWER", 1, "A"),
				sub("OK", 1, "A"),
			},
			wantKeys: []models.ProblemKey{{ContestID: 1, Index: "A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DistinctSolved(tt.submissions)
			keys := make([]models.ProblemKey, 0, len(got))
			for _, p := range got {
				keys = append(keys, p.Key())
			}
			if diff := cmp.Diff(tt.wantKeys, keys); diff != "" {
				t.Errorf("DistinctSolved() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"not found still reachable", http.StatusNotFound, false},
		{"server error", http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("Expected HEAD, got %s", r.Method)
				}
				w.WriteHeader(tt.status)
			})
			err := client.Ping(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Ping() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
