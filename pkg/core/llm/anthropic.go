package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 1500

// AnthropicProvider calls the Messages API. Claude has no response-schema
// parameter, so a requested schema is described in the system prompt.
type AnthropicProvider struct {
	Model   string
	BaseURL string
}

var _ Provider = (*AnthropicProvider)(nil)

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := optString(options, OptAPIKey, os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY_MISSING: Please set ANTHROPIC_API_KEY env var")
	}

	model := p.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	model = optString(options, OptModel, model)

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if p.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(optInt(options, OptMaxTokens, defaultAnthropicMaxTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if t, ok := optFloat(options, OptTemperature); ok {
		params.Temperature = anthropic.Float(t)
	}
	if system := schemaInstructions(systemPrompt, optSchema(options)); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic generation failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyReply)
	}
	return sb.String(), nil
}

func (p *AnthropicProvider) AdaptInstructions(raw string) string {
	return raw
}
