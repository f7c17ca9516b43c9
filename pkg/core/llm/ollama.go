package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaProvider runs prompts against a local Ollama server. The host comes
// from OLLAMA_HOST unless BaseURL is set. A requested schema is passed as the
// structured-output format.
type OllamaProvider struct {
	Model   string
	BaseURL string
}

var _ Provider = (*OllamaProvider)(nil)

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) client() (*api.Client, error) {
	if p.BaseURL == "" {
		return api.ClientFromEnvironment()
	}
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", p.BaseURL, err)
	}
	return api.NewClient(base, http.DefaultClient), nil
}

func (p *OllamaProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	client, err := p.client()
	if err != nil {
		return "", fmt.Errorf("failed to create ollama client: %w", err)
	}

	model := p.Model
	if model == "" {
		model = "llama3.2:3b"
	}
	model = optString(options, OptModel, model)

	modelOpts := map[string]interface{}{}
	if t, ok := optFloat(options, OptTemperature); ok {
		modelOpts["temperature"] = t
	}
	if n := optInt(options, OptMaxTokens, 0); n > 0 {
		modelOpts["num_predict"] = n
	}

	stream := false
	req := &api.GenerateRequest{
		Model:   model,
		Prompt:  prompt,
		System:  systemPrompt,
		Stream:  &stream,
		Options: modelOpts,
	}
	if schema := optSchema(options); schema != nil {
		raw, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("failed to encode ollama format: %w", err)
		}
		req.Format = json.RawMessage(raw)
	}

	var sb strings.Builder
	err = client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("ollama: %w", ErrEmptyReply)
	}
	return sb.String(), nil
}

func (p *OllamaProvider) AdaptInstructions(raw string) string {
	return raw
}
