package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const (
	// ProviderAnthropic is the registry name of the Anthropic provider
	ProviderAnthropic = "anthropic"
	// DefaultAnthropicModel is used when AI_MODEL is empty
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	// DefaultPlanMaxTokens bounds the length of a generated plan
	DefaultPlanMaxTokens = 2048
)

// AnthropicProvider implements AIProvider using the Messages API
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
	debugMode bool
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(cfg ProviderConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderAnthropic, ErrNotConfigured)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.timeout()}),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicProvider{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: DefaultPlanMaxTokens,
		logger:    cfg.logger(),
		debugMode: cfg.DebugMode,
	}, nil
}

// Name implements AIProvider
func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

// StudyPlan implements AIProvider
func (p *AnthropicProvider) StudyPlan(ctx context.Context, req PlanRequest) (string, error) {
	prompt := BuildStudyPlanPrompt(req)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
		}},
	}

	call := startLLMCall(ctx, p.logger, p.debugMode, ProviderAnthropic, p.model, prompt)
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		err = fromAnthropicError(err)
		call.failed(err)
		return "", fmt.Errorf("failed to generate study plan: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	content := completionOrDefault(strings.Join(parts, "\n"))
	call.succeeded(content)
	return content, nil
}

func fromAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	apiType := ""
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		apiType = "authentication_error"
	case http.StatusForbidden:
		apiType = "permission_error"
	case http.StatusTooManyRequests:
		apiType = "rate_limit_error"
	}
	return &APIError{
		Provider:   ProviderAnthropic,
		Message:    err.Error(),
		Type:       apiType,
		StatusCode: apiErr.StatusCode,
		cause:      err,
	}
}
