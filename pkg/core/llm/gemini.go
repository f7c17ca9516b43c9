package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiProvider talks to the Gemini API through the genai SDK. With a
// response schema the reply is constrained to the contract's JSON shape.
type GeminiProvider struct {
	Model string
}

var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := optString(options, OptAPIKey, os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY_MISSING: set GEMINI_API_KEY")
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("GEMINI_CLIENT_ERROR: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, optString(options, OptModel, model), genai.Text(prompt), geminiConfig(systemPrompt, options))
	if err != nil {
		return "", fmt.Errorf("GEMINI_API_ERROR: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("GEMINI: %w", ErrEmptyReply)
	}
	return text, nil
}

func (p *GeminiProvider) AdaptInstructions(raw string) string {
	return raw
}

// geminiConfig maps the shared options onto a generation config.
func geminiConfig(systemPrompt string, options map[string]interface{}) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if t, ok := optFloat(options, OptTemperature); ok {
		config.Temperature = genai.Ptr(float32(t))
	}
	if n := optInt(options, OptMaxTokens, 0); n > 0 {
		config.MaxOutputTokens = int32(n)
	}
	if schema := optSchema(options); schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toGenaiSchema(schema)
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return config
}

// toGenaiSchema converts a flat JSON schema of string properties into the
// SDK schema, keeping property order from "required".
func toGenaiSchema(schema map[string]interface{}) *genai.Schema {
	order := schemaOrder(schema)
	out := &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       make(map[string]*genai.Schema),
		Required:         order,
		PropertyOrdering: order,
	}
	for name, prop := range schemaProperties(schema) {
		desc, _ := prop["description"].(string)
		out.Properties[name] = &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return out
}
