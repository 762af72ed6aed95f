package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/guttosm/equifolio/internal/logger"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-3-7-sonnet-20250219"

// Claude generates text with the Anthropic Messages API.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

var _ Generator = (*Claude)(nil)

// NewClaude creates a Claude generator. Extra request options such as
// option.WithBaseURL are passed to the SDK client.
func NewClaude(apiKey, model string, maxTokens int, opts ...option.RequestOption) *Claude {
	if model == "" {
		model = DefaultClaudeModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Claude{
		client:    anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate sends prompt as a single user message and joins the text blocks
// of the reply.
func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	logger.L().Debug().
		Str("model", c.model).
		Int("response_length", b.Len()).
		Dur("duration", time.Since(start)).
		Msg("claude completion")

	return nonEmpty(b.String())
}
