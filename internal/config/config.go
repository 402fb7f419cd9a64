package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	FrontendURL     string
	EnableHSTS      bool
	ServerDebugMode bool
	LogFormat       string
	RequestTimeout  time.Duration
	OpenAPIPath     string

	CodeforcesURL       string
	CodeforcesTimeout   time.Duration
	CuratedProblemsPath string
	WeakTopicThreshold  int
	SuggestionsPerTag   int

	AIProvider   string
	AIModel      string
	AIBaseURL    string
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string

	OTELEnabled  bool
	OTELEndpoint string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		OpenAPIPath:     getEnv("OPENAPI_PATH", filepath.Join("api", "openapi", "openapi.yaml")),

		CodeforcesURL:       strings.TrimRight(getEnv("CODEFORCES_API_URL", "https://codeforces.com/api"), "/"),
		CodeforcesTimeout:   getEnvDuration("CODEFORCES_TIMEOUT", 30*time.Second),
		CuratedProblemsPath: getEnv("CURATED_PROBLEMS_PATH", ""),
		WeakTopicThreshold:  getEnvInt("WEAK_TOPIC_THRESHOLD", 5),
		SuggestionsPerTag:   getEnvInt("SUGGESTIONS_PER_TAG", 3),

		AIProvider:   strings.ToLower(getEnv("AI_PROVIDER", "openai")),
		AIModel:      getEnv("AI_MODEL", ""),
		AIBaseURL:    getEnv("AI_BASE_URL", ""),
		OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
		GeminiKey:    getEnv("GEMINI_API_KEY", ""),

		OTELEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.WeakTopicThreshold <= 0 {
		return nil, fmt.Errorf("WEAK_TOPIC_THRESHOLD must be positive, got %d", cfg.WeakTopicThreshold)
	}
	if cfg.SuggestionsPerTag <= 0 {
		return nil, fmt.Errorf("SUGGESTIONS_PER_TAG must be positive, got %d", cfg.SuggestionsPerTag)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if cfg.CodeforcesTimeout <= 0 {
		return nil, fmt.Errorf("CODEFORCES_TIMEOUT must be positive")
	}
	if cfg.CodeforcesTimeout >= cfg.RequestTimeout {
		return nil, fmt.Errorf("CODEFORCES_TIMEOUT (%s) must be shorter than REQUEST_TIMEOUT (%s)", cfg.CodeforcesTimeout, cfg.RequestTimeout)
	}

	return cfg, nil
}

// APIKey returns the key configured for the selected AI provider
func (c *Config) APIKey() string {
	switch c.AIProvider {
	case "anthropic":
		return c.AnthropicKey
	case "gemini":
		return c.GeminiKey
	default:
		return c.OpenAIKey
	}
}

// AITimeout bounds a single LLM call; it is always shorter than RequestTimeout
func (c *Config) AITimeout() time.Duration {
	return c.RequestTimeout * 9 / 10
}

// AllowedOrigins splits FrontendURL into the CORS origin list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.FrontendURL, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvInt returns the default only when the variable is unset; a malformed
// value yields -1 so the range checks in Load reject it.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return intValue
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return -1
}
