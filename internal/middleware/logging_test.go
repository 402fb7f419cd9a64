package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/tle-advisor/internal/request"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		wantLevel     zapcore.Level
	}{
		{name: "GET request", method: "GET", path: "/api/analysis", handlerStatus: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "POST request", method: "POST", path: "/api/advice", handlerStatus: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "404 request", method: "GET", path: "/notfound", handlerStatus: http.StatusNotFound, wantLevel: zapcore.InfoLevel},
		{name: "upstream failure", method: "GET", path: "/api/problemset", handlerStatus: http.StatusInternalServerError, wantLevel: zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.DebugLevel)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			Logging(zap.New(core))(handler).ServeHTTP(w, req)

			if w.Code != tt.handlerStatus {
				t.Errorf("Expected status %d, got %d", tt.handlerStatus, w.Code)
			}

			entries := logs.FilterMessage("http_request").All()
			if len(entries) != 1 {
				t.Fatalf("Expected one http_request entry, got %d", len(entries))
			}
			entry := entries[0]
			if entry.Level != tt.wantLevel {
				t.Errorf("Expected level %v, got %v", tt.wantLevel, entry.Level)
			}
			fields := entry.ContextMap()
			if fields["path"] != tt.path {
				t.Errorf("Expected path %q, got %v", tt.path, fields["path"])
			}
			if fields["status_code"] != int64(tt.handlerStatus) {
				t.Errorf("Expected status_code %d, got %v", tt.handlerStatus, fields["status_code"])
			}
		})
	}
}

func TestLogging_CountsBytesAndRequestID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("test")) // Ignore error in test
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req = req.WithContext(request.WithRequestID(req.Context(), "req-1"))
	w := httptest.NewRecorder()

	Logging(zap.New(core))(handler).ServeHTTP(w, req)

	fields := logs.All()[0].ContextMap()
	if fields["bytes"] != int64(4) {
		t.Errorf("Expected 4 bytes logged, got %v", fields["bytes"])
	}
	if fields["request_id"] != "req-1" {
		t.Errorf("Expected request_id req-1, got %v", fields["request_id"])
	}
	if fields["status_code"] != int64(http.StatusOK) {
		t.Errorf("Expected implicit 200, got %v", fields["status_code"])
	}
}
