package llm

import (
	"context"
	"net/http"
	"os"
	"strings"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4"
)

// Model families that accept response_format json_schema; the older
// snapshots that do not are excluded in supportsStructuredOutputs.
var structuredOutputPrefixes = []string{"gpt-4o", "gpt-4.1", "gpt-4.5", "gpt-5", "o1", "o3", "o4"}

// OpenAIProvider talks to the OpenAI chat completions endpoint.
// A missing OPENAI_API_KEY is not an error here; the request is sent and the
// remote rejection surfaces as the call error.
type OpenAIProvider struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewOpenAIProvider() *OpenAIProvider {
	base := os.Getenv("OPENAI_BASE_URL")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	return &OpenAIProvider{BaseURL: base, HTTPClient: &http.Client{}}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := optString(options, OptAPIKey, os.Getenv("OPENAI_API_KEY"))
	model := optString(options, OptModel, defaultOpenAIModel)

	mode := schemaInPrompt
	if supportsStructuredOutputs(model) {
		mode = schemaNative
	}
	reqBody := buildChatRequest(model, prompt, systemPrompt, options, mode)
	url := strings.TrimRight(p.BaseURL, "/") + "/chat/completions"
	return postChat(ctx, p.HTTPClient, url, apiKey, "OPENAI", reqBody)
}

func (p *OpenAIProvider) AdaptInstructions(raw string) string {
	return raw
}

// supportsStructuredOutputs reports whether model takes a strict json_schema
// response format. Other models (gpt-4, gpt-3.5) get the schema in the system
// prompt with no response_format, since plain gpt-4 rejects json_object too.
func supportsStructuredOutputs(model string) bool {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "gpt-4o-2024-05-13" || model == "o1-preview" || model == "o1-mini" {
		return false
	}
	for _, prefix := range structuredOutputPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
