package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// chatClient is the subset of *openai.Client used here.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI generates text with the OpenAI chat completions API.
type OpenAI struct {
	client    chatClient
	model     string
	maxTokens int
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(apiKey, model string, maxTokens int) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model, maxTokens: maxTokens}
}

// NewOpenAIWithBaseURL targets an OpenAI compatible endpoint.
func NewOpenAIWithBaseURL(apiKey, baseURL, model string, maxTokens int) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	o := NewOpenAI(apiKey, model, maxTokens)
	o.client = openai.NewClientWithConfig(cfg)
	return o
}

// Generate sends prompt as one user message.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return nonEmpty(resp.Choices[0].Message.Content)
}
