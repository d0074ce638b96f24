package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyResponse = errors.New("provider returned no content")

// Provider turns a prompt into generated text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
}

func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAICompatibleProvider(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
