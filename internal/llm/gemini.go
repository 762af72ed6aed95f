package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates text with the Google Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int
}

var _ Generator = (*Gemini)(nil)

// NewGemini creates a Gemini generator backed by the Gemini API (not Vertex).
func NewGemini(ctx context.Context, apiKey, model string, maxTokens int) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model, maxTokens: maxTokens}, nil
}

// Generate runs a single-turn completion.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if g.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(g.maxTokens)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return nonEmpty(resp.Text())
}
