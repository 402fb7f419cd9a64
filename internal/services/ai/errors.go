package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotConfigured is returned when the selected provider has no API key
	ErrNotConfigured = errors.New("AI provider is not configured")
	// ErrRateLimited indicates the API rate limit was exceeded
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExceeded indicates the API quota was exceeded
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// APIError represents an error from the AI provider API
type APIError struct {
	Provider   string
	Message    string
	Type       string
	Code       string
	StatusCode int
	cause      error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d, type %s): %s", e.Provider, e.StatusCode, e.Type, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// IsAuthError reports whether the provider rejected the configured credentials
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden ||
			apiErr.Code == "invalid_api_key" ||
			apiErr.Type == "authentication_error"
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "invalid api key") ||
		strings.Contains(errStr, "invalid_api_key") ||
		strings.Contains(errStr, "401 unauthorized")
}

// IsQuotaError checks if an error is a quota exhaustion error
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == "insufficient_quota" || apiErr.Type == "insufficient_quota" {
			return true
		}
		if apiErr.StatusCode != http.StatusTooManyRequests && apiErr.StatusCode != http.StatusPaymentRequired {
			return false
		}
		return mentionsQuota(apiErr.Message) || apiErr.StatusCode == http.StatusPaymentRequired
	}

	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	return mentionsQuota(err.Error())
}

// IsRateLimitError checks if an error is a transient rate limit error
func IsRateLimitError(err error) bool {
	if err == nil || IsQuotaError(err) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}

	if errors.Is(err, ErrRateLimited) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func mentionsQuota(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "billing") ||
		strings.Contains(msg, "credit balance")
}

// StatusForError maps a provider error to the HTTP status returned to clients
func StatusForError(err error) int {
	switch {
	case IsAuthError(err):
		return http.StatusUnauthorized
	case IsQuotaError(err), IsRateLimitError(err):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message shown to clients for a provider error.
// Provider details stay in the logs.
func ClientMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "AI advice is not available"
	case IsAuthError(err):
		return "AI provider rejected the configured API key"
	case IsQuotaError(err):
		return "AI provider quota exceeded"
	case IsRateLimitError(err):
		return "AI provider rate limit exceeded, try again later"
	default:
		return "Failed to generate AI suggestion"
	}
}
