package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	logpkg "github.com/benvon/tle-advisor/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Codeforces API
	DefaultBaseURL = "https://codeforces.com/api"
	// DefaultTimeout is the default timeout for a single API call
	DefaultTimeout = 30 * time.Second

	statusOK = "OK"
)

// Client calls the public Codeforces API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewClient creates a Codeforces API client. Empty baseURL and non-positive timeout fall back to defaults.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tracer:     otel.Tracer("github.com/benvon/tle-advisor/internal/services/codeforces"),
	}
}

// envelope is the common shape of every API response
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// call performs a GET on an API method and decodes the result field into out
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	ctx, span := c.tracer.Start(ctx, "codeforces."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("codeforces.method", method)),
	)
	defer span.End()

	err := c.doCall(ctx, method, params, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "codeforces call failed")
	}
	return err
}

func (c *Client) doCall(ctx context.Context, method string, params url.Values, out any) error {
	endpoint := c.baseURL + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &UpstreamFetchError{Method: method, Cause: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("codeforces_request_failed",
			zap.String("method", method),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		return &UpstreamFetchError{Method: method, Cause: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed_to_close_codeforces_response", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamFetchError{Method: method, StatusCode: resp.StatusCode, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("codeforces_response",
		zap.String("method", method),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("body_bytes", len(body)),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	// FAILED responses come with a 4xx status and still carry a JSON envelope
	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fetchErr := &UpstreamFetchError{Method: method, StatusCode: resp.StatusCode}
		if decodeErr == nil && env.Comment != "" {
			fetchErr.Comment = env.Comment
		}
		return fetchErr
	}
	if decodeErr != nil {
		return &UpstreamFetchError{Method: method, StatusCode: resp.StatusCode, Cause: fmt.Errorf("malformed response: %w", decodeErr)}
	}
	if env.Status != statusOK {
		if env.Comment == "" {
			return &UpstreamFetchError{Method: method, StatusCode: resp.StatusCode, Cause: ErrFailedStatus}
		}
		return &UpstreamFetchError{Method: method, StatusCode: resp.StatusCode, Comment: env.Comment}
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return &UpstreamFetchError{Method: method, StatusCode: resp.StatusCode, Cause: errors.New("malformed response: missing result")}
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return &UpstreamFetchError{Method: method, StatusCode: resp.StatusCode, Cause: fmt.Errorf("malformed result: %w", err)}
	}

	return nil
}

// Ping checks that the API host answers. Any response below 500 counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("codeforces API returned status %d", resp.StatusCode)
	}
	return nil
}
