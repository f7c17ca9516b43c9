package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const defaultDeepSeekBaseURL = "https://api.deepseek.com"

// DeepSeekProvider uses DeepSeek's OpenAI-compatible API. DeepSeek has no
// json_schema response format, so the schema is described in the system
// prompt and json_object mode is requested.
type DeepSeekProvider struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewDeepSeekProvider() *DeepSeekProvider {
	return &DeepSeekProvider{BaseURL: defaultDeepSeekBaseURL, HTTPClient: &http.Client{}}
}

func (p *DeepSeekProvider) Name() string { return "deepseek" }

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := optString(options, OptAPIKey, os.Getenv("DEEPSEEK_API_KEY"))
	if apiKey == "" {
		return "", fmt.Errorf("DEEPSEEK_API_KEY_MISSING: Please set DEEPSEEK_API_KEY env var")
	}
	model := optString(options, OptModel, "deepseek-chat")

	base := p.BaseURL
	if base == "" {
		base = defaultDeepSeekBaseURL
	}
	reqBody := buildChatRequest(model, prompt, systemPrompt, options, schemaJSONObject)
	return postChat(ctx, p.HTTPClient, strings.TrimRight(base, "/")+"/chat/completions", apiKey, "DEEPSEEK", reqBody)
}

func (p *DeepSeekProvider) AdaptInstructions(raw string) string {
	return raw
}
