// Package extraction fills an extraction contract from a transcript with one
// schema-guided LLM call and normalizes the reply into an Envelope.
package extraction

import (
	"context"
	"fmt"
	"log"

	"voicebot_sim/pkg/core/entity"
	"voicebot_sim/pkg/core/llm"
	"voicebot_sim/pkg/core/prompt"
	"voicebot_sim/pkg/core/utils"
)

type Extractor struct {
	provider llm.Provider
	composer *prompt.Composer
	options  map[string]interface{}
}

// NewExtractor creates an extractor. options (model, temperature, ...) are
// passed to every call; the response schema is added per contract.
func NewExtractor(provider llm.Provider, composer *prompt.Composer, options map[string]interface{}) *Extractor {
	if composer == nil {
		composer = prompt.NewComposer(prompt.DefaultPersona)
	}
	return &Extractor{provider: provider, composer: composer, options: options}
}

// Extract asks the model to fill contract from transcript. Provider and
// parse failures are returned as errors.
func (e *Extractor) Extract(ctx context.Context, contract *entity.Contract, transcript string) (*Envelope, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("extraction: %w", llm.ErrUnknownProvider)
	}

	system, user, err := e.composer.Extraction(contract, transcript)
	if err != nil {
		return nil, err
	}

	opts := make(map[string]interface{}, len(e.options)+1)
	for k, v := range e.options {
		opts[k] = v
	}
	opts[llm.OptResponseSchema] = contract.JSONSchema()

	reply, err := e.provider.GenerateResponse(ctx, user, e.provider.AdaptInstructions(system), opts)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	var raw map[string]interface{}
	if _, err := utils.SmartParse(reply, &raw); err != nil {
		log.Printf("[extraction] unparseable reply from %s: %.200q", e.provider.Name(), reply)
		return nil, fmt.Errorf("extraction reply: %w", err)
	}

	env := Normalize(contract, raw)
	log.Printf("[extraction] %d/%d fields filled", len(env.Data.Answers), contract.Len())
	return env, nil
}
