// Package transcript produces one synthetic call transcript per prompt.
package transcript

import (
	"context"
	"log"

	"voicebot_sim/pkg/core/llm"
	"voicebot_sim/pkg/core/utils"
)

// ErrorSentinel is returned in place of a transcript when generation fails.
const ErrorSentinel = "Error generating response."

// Settings are the sampling parameters for transcript generation.
type Settings struct {
	Model       string  `yaml:"model" json:"model"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
}

// DefaultSettings returns gpt-4 at temperature 0.8 with 1500 max tokens.
func DefaultSettings() Settings {
	return Settings{Model: "gpt-4", Temperature: 0.8, MaxTokens: 1500}
}

// SettingsFromOptions reads resolved provider options. The model is taken
// as given: no model option means the provider's own default, never gpt-4.
// Temperature and max tokens fall back to DefaultSettings.
func SettingsFromOptions(opts map[string]interface{}) Settings {
	s := DefaultSettings()
	s.Model, _ = opts[llm.OptModel].(string)
	if t, ok := opts[llm.OptTemperature].(float64); ok {
		s.Temperature = t
	}
	if n, ok := opts[llm.OptMaxTokens].(int); ok && n > 0 {
		s.MaxTokens = n
	}
	return s
}

func (s Settings) options() map[string]interface{} {
	opts := map[string]interface{}{
		llm.OptTemperature: s.Temperature,
	}
	if s.Model != "" {
		opts[llm.OptModel] = s.Model
	}
	if s.MaxTokens > 0 {
		opts[llm.OptMaxTokens] = s.MaxTokens
	}
	return opts
}

type Generator struct {
	provider llm.Provider
	settings Settings
}

func NewGenerator(provider llm.Provider, settings Settings) *Generator {
	return &Generator{provider: provider, settings: settings}
}

// Generate sends prompt as a single user turn and returns the trimmed reply
// with any outer code fence removed. Failures are logged and yield
// ErrorSentinel; Generate never returns an error.
func (g *Generator) Generate(ctx context.Context, prompt string) string {
	if g.provider == nil {
		log.Printf("[transcript] Error generating transcript: %v", llm.ErrUnknownProvider)
		return ErrorSentinel
	}

	reply, err := g.provider.GenerateResponse(ctx, prompt, "", g.settings.options())
	if err != nil {
		log.Printf("[transcript] Error generating transcript with %s: %v", g.provider.Name(), err)
		return ErrorSentinel
	}

	text := utils.CleanMarkdown(reply)
	if text == "" {
		log.Printf("[transcript] Error generating transcript with %s: %v", g.provider.Name(), llm.ErrEmptyReply)
		return ErrorSentinel
	}
	return text
}
