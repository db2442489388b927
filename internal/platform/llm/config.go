package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var DefaultGeminiModels = []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.0-flash", "gemini-pro-latest"}

var DefaultOpenAIModels = []string{"gpt-4o-mini", "gpt-4o"}

type Config struct {
	Provider string
	Models   []string
	Timeout  time.Duration

	GeminiAPIKey   string
	GeminiEndpoint string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	MaxRetries    int
}

// New builds the configured backend and wraps it in a Fallback.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*Fallback, error) {
	var (
		provider Provider
		defaults []string
		err      error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		provider, err = NewGeminiProvider(log, cfg.GeminiAPIKey, cfg.GeminiEndpoint)
		defaults = DefaultGeminiModels
	case ProviderOpenAI:
		provider, err = NewOpenAIProvider(log, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.MaxRetries)
		defaults = DefaultOpenAIModels
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	models := cfg.Models
	if len(models) == 0 {
		models = defaults
	}
	return NewFallback(log, provider, models, cfg.Timeout), nil
}
