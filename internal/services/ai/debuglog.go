package ai

import (
	"context"
	"time"

	logpkg "github.com/benvon/tle-advisor/internal/logger"
	"go.uber.org/zap"
)

// llmCall logs one provider round trip. Prompt and response previews are only emitted in debug mode.
type llmCall struct {
	logger    *zap.Logger
	debugMode bool
	provider  string
	model     string
	requestID string
	start     time.Time
}

func startLLMCall(ctx context.Context, logger *zap.Logger, debugMode bool, provider, model, prompt string) *llmCall {
	c := &llmCall{
		logger:    logger,
		debugMode: debugMode,
		provider:  provider,
		model:     model,
		requestID: ExtractRequestID(ctx),
		start:     time.Now(),
	}
	if debugMode {
		logger.Debug("llm_api_request",
			zap.String("operation", "study_plan"),
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("request_id", c.requestID),
		)
	}
	return c
}

func (c *llmCall) failed(err error) {
	c.logger.Warn("llm_api_error",
		zap.String("operation", "study_plan"),
		zap.String("provider", c.provider),
		zap.String("model", c.model),
		zap.String("error", logpkg.SanitizeError(err)),
		zap.String("request_id", c.requestID),
		zap.Int64("latency_ms", time.Since(c.start).Milliseconds()),
	)
}

func (c *llmCall) succeeded(content string) {
	latency := time.Since(c.start)
	if c.debugMode {
		c.logger.Debug("llm_api_response",
			zap.String("operation", "study_plan"),
			zap.String("provider", c.provider),
			zap.String("model", c.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("request_id", c.requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
		return
	}
	c.logger.Info("study_plan_generated",
		zap.String("provider", c.provider),
		zap.String("model", c.model),
		zap.Int("response_length", len(content)),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
}
