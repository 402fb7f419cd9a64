package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// ProviderOpenAI is the registry name of the OpenAI provider
	ProviderOpenAI = "openai"
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// OpenAIProvider implements AIProvider using the chat completions API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider. An OpenAI-compatible endpoint can be used through BaseURL.
func NewOpenAIProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderOpenAI, ErrNotConfigured)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.timeout()}),
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    cfg.logger(),
		debugMode: cfg.DebugMode,
	}, nil
}

// Name implements AIProvider
func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// StudyPlan implements AIProvider
func (p *OpenAIProvider) StudyPlan(ctx context.Context, req PlanRequest) (string, error) {
	prompt := BuildStudyPlanPrompt(req)
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
	}

	call := startLLMCall(ctx, p.logger, p.debugMode, ProviderOpenAI, p.model, prompt)
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		err = fromOpenAIError(err)
		call.failed(err)
		return "", fmt.Errorf("failed to generate study plan: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	content = completionOrDefault(content)
	call.succeeded(content)
	return content, nil
}

func fromOpenAIError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	msg := apiErr.Message
	if msg == "" {
		msg = err.Error()
	}
	return &APIError{
		Provider:   ProviderOpenAI,
		Message:    msg,
		Type:       apiErr.Type,
		Code:       apiErr.Code,
		StatusCode: apiErr.StatusCode,
		cause:      err,
	}
}
