// Package llm turns prompts into narrative text using a hosted model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/equifolio/config"
)

var (
	// ErrEmptyResponse means the model replied without any text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrMissingAPIKey means the selected backend has no credentials.
	ErrMissingAPIKey = errors.New("llm: missing api key")
)

// DefaultMaxTokens caps replies when the config leaves it unset.
const DefaultMaxTokens = 4000

// Generator produces text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by New.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// geminiCtor is an indirection so tests can build the factory without a
// network handshake.
var geminiCtor = NewGemini

// New builds the Generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderClaude, "":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY", ErrMissingAPIKey)
		}
		return NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicModel, maxTokens), nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingAPIKey)
		}
		return geminiCtor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, maxTokens)
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingAPIKey)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, maxTokens), nil
	}
	return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
