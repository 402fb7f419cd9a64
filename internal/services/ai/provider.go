package ai

import (
	"context"
	"sort"
	"time"

	"github.com/benvon/tle-advisor/internal/models"
	"go.uber.org/zap"
)

// DefaultTimeout is the default timeout for provider API calls
const DefaultTimeout = 60 * time.Second

// AIProvider generates a prose study plan for a competitive programmer
type AIProvider interface {
	// StudyPlan returns the plan text. An empty completion yields NoSuggestion, not an error.
	StudyPlan(ctx context.Context, req PlanRequest) (string, error)

	// Name returns the registry name of the provider
	Name() string
}

// PlanRequest carries the handle and weak-topic data used to build the prompt
type PlanRequest struct {
	Handle     string
	WeakTopics []string
	// Topics optionally enriches WeakTopics with solve counts and average ratings
	Topics []models.TopicDetail
}

// ProviderConfig holds the settings shared by every provider
type ProviderConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	Logger    *zap.Logger
	DebugMode bool
}

func (c ProviderConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c ProviderConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// ProviderFactory creates an AI provider from its configuration
type ProviderFactory func(ctx context.Context, cfg ProviderConfig) (AIProvider, error)

// ProviderRegistry stores available AI providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// DefaultRegistry returns a registry with the openai, anthropic and gemini providers
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.Register(ProviderOpenAI, func(_ context.Context, cfg ProviderConfig) (AIProvider, error) {
		return NewOpenAIProvider(cfg)
	})
	r.Register(ProviderAnthropic, func(_ context.Context, cfg ProviderConfig) (AIProvider, error) {
		return NewAnthropicProvider(cfg)
	})
	r.Register(ProviderGemini, func(ctx context.Context, cfg ProviderConfig) (AIProvider, error) {
		return NewGeminiProvider(ctx, cfg)
	})
	return r
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(ctx context.Context, name string, cfg ProviderConfig) (AIProvider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(ctx, cfg)
}

// Names returns the registered provider names in sorted order
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
