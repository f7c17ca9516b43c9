package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ChatRequest is the OpenAI-compatible chat completions body.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream"`
}

type Message struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type ResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

type JSONSchemaFormat struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
	Strict bool                   `json:"strict"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// schemaMode says how a response schema reaches an OpenAI-compatible API.
type schemaMode int

const (
	// schemaNative sends response_format json_schema with strict decoding.
	schemaNative schemaMode = iota
	// schemaJSONObject describes the schema in the system prompt and asks for
	// response_format json_object.
	schemaJSONObject
	// schemaInPrompt only describes the schema in the system prompt, for
	// models that accept no response_format at all.
	schemaInPrompt
)

// buildChatRequest assembles a single-turn request. The system message is
// omitted when systemPrompt is empty.
func buildChatRequest(model, prompt, systemPrompt string, options map[string]interface{}, mode schemaMode) ChatRequest {
	req := ChatRequest{Model: model, MaxTokens: optInt(options, OptMaxTokens, 0)}
	if t, ok := optFloat(options, OptTemperature); ok {
		req.Temperature = &t
	}

	if schema := optSchema(options); schema != nil {
		switch mode {
		case schemaNative:
			req.ResponseFormat = &ResponseFormat{
				Type:       "json_schema",
				JSONSchema: &JSONSchemaFormat{Name: "extraction", Schema: schema, Strict: true},
			}
		case schemaJSONObject:
			systemPrompt = schemaInstructions(systemPrompt, schema)
			req.ResponseFormat = &ResponseFormat{Type: "json_object"}
		default:
			systemPrompt = schemaInstructions(systemPrompt, schema)
		}
	}

	if systemPrompt != "" {
		req.Messages = append(req.Messages, Message{Content: systemPrompt, Role: "system"})
	}
	req.Messages = append(req.Messages, Message{Content: prompt, Role: "user"})
	return req
}

// postJSON POSTs body with a bearer key and returns the raw 200 response.
// tag prefixes error codes, e.g. "OPENAI" yields "OPENAI_API_ERROR".
func postJSON(ctx context.Context, client *http.Client, url, apiKey, tag string, body interface{}) ([]byte, error) {
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s_MARSHAL_ERROR: %v", tag, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("%s_REQ_CREATE_ERROR: %v", tag, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s_API_CALL_ERROR: %w", tag, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s_READ_BODY_ERROR: %v", tag, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s_API_ERROR: status=%d found=%s", tag, res.StatusCode, string(data))
	}
	return data, nil
}

// postChat sends a chat completions request and returns the first choice.
func postChat(ctx context.Context, client *http.Client, url, apiKey, tag string, reqBody ChatRequest) (string, error) {
	body, err := postJSON(ctx, client, url, apiKey, tag, reqBody)
	if err != nil {
		return "", err
	}

	var response ChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%s_UNMARSHAL_ERROR: %v", tag, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%s_NO_CHOICES: %s", tag, string(body))
	}
	if response.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w", tag, ErrEmptyReply)
	}

	return response.Choices[0].Message.Content, nil
}
