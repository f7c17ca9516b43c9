package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	gai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleAIProvider uses the older generative-ai-go client. It stays for
// deployments pinned to that SDK; new setups should prefer "gemini".
type GoogleAIProvider struct {
	Model string
}

var _ Provider = (*GoogleAIProvider)(nil)

func (p *GoogleAIProvider) Name() string { return "googleai" }

func (p *GoogleAIProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := optString(options, OptAPIKey, os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	modelName := p.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	modelName = optString(options, OptModel, modelName)

	client, err := gai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create generative-ai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	if t, ok := optFloat(options, OptTemperature); ok {
		model.SetTemperature(float32(t))
	}
	if n := optInt(options, OptMaxTokens, 0); n > 0 {
		model.SetMaxOutputTokens(int32(n))
	}
	if schema := optSchema(options); schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGoogleAISchema(schema)
	}
	if systemPrompt != "" {
		model.SystemInstruction = &gai.Content{Parts: []gai.Part{gai.Text(systemPrompt)}}
	}

	resp, err := model.GenerateContent(ctx, gai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("googleai generation failed: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(gai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("googleai: %w", ErrEmptyReply)
	}
	return sb.String(), nil
}

func (p *GoogleAIProvider) AdaptInstructions(raw string) string {
	return raw
}

func toGoogleAISchema(schema map[string]interface{}) *gai.Schema {
	out := &gai.Schema{
		Type:       gai.TypeObject,
		Properties: make(map[string]*gai.Schema),
		Required:   schemaOrder(schema),
	}
	for name, prop := range schemaProperties(schema) {
		desc, _ := prop["description"].(string)
		out.Properties[name] = &gai.Schema{Type: gai.TypeString, Description: desc}
	}
	return out
}
