package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxHandleLength is the longest handle accepted
	MaxHandleLength = 64
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	// ErrHandleRequired is returned when the handle is missing
	ErrHandleRequired = errors.New("missing handle")
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("cf_handle", validateHandleField); err != nil {
		panic(fmt.Sprintf("failed to register cf_handle validator: %v", err))
	}
}

// validateHandleField validates that a string looks like a Codeforces handle
func validateHandleField(fl validator.FieldLevel) bool {
	return isHandle(fl.Field().String())
}

func isHandle(value string) bool {
	if value == "" || len(value) > MaxHandleLength {
		return false
	}
	for _, r := range value {
		if r > unicode.MaxASCII {
			return false
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			continue
		}
		return false
	}
	return true
}

// ValidateHandle trims and validates a handle, returning the cleaned value
func ValidateHandle(value string) (string, error) {
	handle := strings.TrimSpace(value)
	if handle == "" {
		return "", ErrHandleRequired
	}
	if len(handle) > MaxHandleLength {
		return "", fmt.Errorf("invalid handle: must be at most %d characters", MaxHandleLength)
	}
	if !isHandle(handle) {
		return "", fmt.Errorf("invalid handle: only letters, digits, '_', '-' and '.' are allowed")
	}
	return handle, nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// FormatErrors turns validator errors into a short human readable message
func FormatErrors(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx != -1 {
			field = field[idx+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "cf_handle":
			msgs = append(msgs, fmt.Sprintf("%s is not a valid handle", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
