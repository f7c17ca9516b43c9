package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

const defaultQwenURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// QwenProvider calls the native DashScope generation API.
type QwenProvider struct {
	URL        string
	HTTPClient *http.Client
}

func NewQwenProvider() *QwenProvider {
	return &QwenProvider{URL: defaultQwenURL, HTTPClient: &http.Client{}}
}

type qwenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []Message `json:"messages"`
	} `json:"input"`
	Parameters qwenParameters `json:"parameters"`
}

type qwenParameters struct {
	ResultFormat   string          `json:"result_format"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type qwenResponse struct {
	Output struct {
		ChatResponse
		// result_format "text" answers here instead of in choices
		Text string `json:"text"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (p *QwenProvider) Name() string { return "qwen" }

func (p *QwenProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := optString(options, OptAPIKey, os.Getenv("DASHSCOPE_API_KEY"))
	if apiKey == "" {
		apiKey = os.Getenv("QWEN_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("QWEN_API_KEY_MISSING: set DASHSCOPE_API_KEY or QWEN_API_KEY")
	}

	// DashScope takes the same messages and knobs as chat completions, wrapped
	// in input/parameters. Strict json_schema is not offered.
	chat := buildChatRequest(optString(options, OptModel, "qwen-max"), prompt, systemPrompt, options, schemaJSONObject)

	var reqBody qwenRequest
	reqBody.Model = chat.Model
	reqBody.Input.Messages = chat.Messages
	reqBody.Parameters = qwenParameters{
		ResultFormat:   "message",
		Temperature:    chat.Temperature,
		MaxTokens:      chat.MaxTokens,
		ResponseFormat: chat.ResponseFormat,
	}

	url := p.URL
	if url == "" {
		url = defaultQwenURL
	}
	body, err := postJSON(ctx, p.HTTPClient, url, apiKey, "QWEN", reqBody)
	if err != nil {
		return "", err
	}

	var result qwenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("QWEN_UNMARSHAL_ERROR: %v", err)
	}
	if result.Code != "" {
		return "", fmt.Errorf("QWEN_API_ERROR: %s - %s", result.Code, result.Message)
	}

	if choices := result.Output.Choices; len(choices) > 0 && choices[0].Message.Content != "" {
		return choices[0].Message.Content, nil
	}
	if result.Output.Text != "" {
		return result.Output.Text, nil
	}
	return "", fmt.Errorf("QWEN: %w", ErrEmptyReply)
}

func (p *QwenProvider) AdaptInstructions(raw string) string {
	return raw
}
