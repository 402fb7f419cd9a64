package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// ProviderGemini is the registry name of the Gemini provider
	ProviderGemini = "gemini"
	// DefaultGeminiModel is used when AI_MODEL is empty
	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiProvider implements AIProvider using the Gemini API
type GeminiProvider struct {
	client    *genai.Client
	model     string
	maxTokens int32
	logger    *zap.Logger
	debugMode bool
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderGemini, ErrNotConfigured)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.timeout()},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		model:     model,
		maxTokens: DefaultPlanMaxTokens,
		logger:    cfg.logger(),
		debugMode: cfg.DebugMode,
	}, nil
}

// Name implements AIProvider
func (p *GeminiProvider) Name() string { return ProviderGemini }

// StudyPlan implements AIProvider
func (p *GeminiProvider) StudyPlan(ctx context.Context, req PlanRequest) (string, error) {
	prompt := BuildStudyPlanPrompt(req)
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: p.maxTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt}},
		},
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	call := startLLMCall(ctx, p.logger, p.debugMode, ProviderGemini, p.model, prompt)
	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		err = fromGeminiError(err)
		call.failed(err)
		return "", fmt.Errorf("failed to generate study plan: %w", err)
	}

	content := completionOrDefault(result.Text())
	call.succeeded(content)
	return content, nil
}

func fromGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return geminiAPIError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return geminiAPIError(*apiErrPtr, err)
	}
	return err
}

func geminiAPIError(apiErr genai.APIError, cause error) *APIError {
	e := &APIError{
		Provider:   ProviderGemini,
		Message:    apiErr.Message,
		Type:       apiErr.Status,
		StatusCode: apiErr.Code,
		cause:      cause,
	}
	// Gemini reports an invalid key as 400 INVALID_ARGUMENT
	if apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "api key not valid") {
		e.StatusCode = http.StatusUnauthorized
		e.Code = "invalid_api_key"
	}
	return e
}
