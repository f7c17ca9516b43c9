package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Option keys understood by every provider.
const (
	OptModel          = "model"           // string
	OptTemperature    = "temperature"     // float64
	OptMaxTokens      = "max_tokens"      // int
	OptAPIKey         = "api_key"         // string, overrides the provider's key
	OptResponseSchema = "response_schema" // map[string]interface{} JSON schema of the expected object
)

var (
	// ErrEmptyReply is returned when a provider answers without any text.
	ErrEmptyReply = errors.New("llm returned empty content")
	// ErrUnknownProvider is returned when a provider name is not registered.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// Provider is the interface for all LLM providers.
type Provider interface {
	// Name returns the registry name of the provider (e.g. "openai").
	Name() string
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// Names lists the providers NewProvider can build.
var Names = []string{"openai", "deepseek", "qwen", "gemini", "googleai", "anthropic", "ollama"}

// NewProvider builds a provider by registry name with default settings.
func NewProvider(name string) (Provider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(), nil
	case "deepseek":
		return NewDeepSeekProvider(), nil
	case "qwen":
		return NewQwenProvider(), nil
	case "gemini":
		return &GeminiProvider{}, nil
	case "googleai":
		return &GoogleAIProvider{}, nil
	case "anthropic":
		return &AnthropicProvider{}, nil
	case "ollama":
		return &OllamaProvider{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
}

func optString(options map[string]interface{}, key string, def string) string {
	if val, ok := options[key].(string); ok && val != "" {
		return val
	}
	return def
}

func optFloat(options map[string]interface{}, key string) (float64, bool) {
	switch v := options[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func optInt(options map[string]interface{}, key string, def int) int {
	switch v := options[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return int(v)
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return def
}

func optSchema(options map[string]interface{}) map[string]interface{} {
	if val, ok := options[OptResponseSchema].(map[string]interface{}); ok && len(val) > 0 {
		return val
	}
	return nil
}

// schemaInstructions appends the expected JSON shape to a system prompt for
// providers without a native response-schema parameter.
func schemaInstructions(systemPrompt string, schema map[string]interface{}) string {
	if schema == nil {
		return systemPrompt
	}
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return systemPrompt
	}
	return fmt.Sprintf("%s\n\nYour reply must be a single JSON object matching this JSON schema:\n%s", systemPrompt, raw)
}

// schemaOrder returns the property names of a JSON schema in the order given
// by its "required" list.
func schemaOrder(schema map[string]interface{}) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []interface{}:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func schemaProperties(schema map[string]interface{}) map[string]map[string]interface{} {
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]map[string]interface{}, len(props))
	for name, p := range props {
		if m, ok := p.(map[string]interface{}); ok {
			out[name] = m
		}
	}
	return out
}
