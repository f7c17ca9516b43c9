package prompt

import (
	"strings"

	"voicebot_sim/pkg/core/entity"
)

// FallbackMainPrompt replaces a behavioral prompt that is empty after trimming.
const FallbackMainPrompt = "You are a helpful voicebot agent."

// Persona is the simulated agent identity used in the conversation prompt.
type Persona struct {
	AgentName   string `yaml:"agent_name" json:"agent_name"`
	AgentGender string `yaml:"agent_gender" json:"agent_gender"`
}

// DefaultPersona is used when no persona is configured.
var DefaultPersona = Persona{AgentName: "Priya", AgentGender: "female"}

// withDefaults fills empty persona fields from DefaultPersona.
func (p Persona) withDefaults() Persona {
	if strings.TrimSpace(p.AgentName) == "" {
		p.AgentName = DefaultPersona.AgentName
	}
	if strings.TrimSpace(p.AgentGender) == "" {
		p.AgentGender = DefaultPersona.AgentGender
	}
	return p
}

// Composer renders the prompts for both LLM calls of a run.
type Composer struct {
	persona  Persona
	registry *Registry
}

// NewComposer creates a composer backed by the global prompt registry.
func NewComposer(persona Persona) *Composer {
	return NewComposerWithRegistry(persona, Get())
}

// NewComposerWithRegistry creates a composer backed by r.
func NewComposerWithRegistry(persona Persona, r *Registry) *Composer {
	return &Composer{persona: persona.withDefaults(), registry: r}
}

// Conversation renders the generation prompt for the given scenarios.
func (c *Composer) Conversation(scenarios []string, mainPrompt string) (string, error) {
	t, err := c.registry.Lookup(PromptIDs.Conversation)
	if err != nil {
		return "", err
	}

	behavior := strings.TrimSpace(mainPrompt)
	if behavior == "" {
		behavior = FallbackMainPrompt
	}

	return t.Render(Vars{
		"AgentName":   c.persona.AgentName,
		"AgentGender": c.persona.AgentGender,
		"MainPrompt":  behavior,
		"Scenarios":   scenarios,
	})
}

// Extraction renders the system and user prompts for one extraction call.
func (c *Composer) Extraction(contract *entity.Contract, transcript string) (string, string, error) {
	t, err := c.registry.Lookup(PromptIDs.Extraction)
	if err != nil {
		return "", "", err
	}

	user, err := t.Render(Vars{
		"Fields":     contract.Describe(),
		"Transcript": transcript,
	})
	if err != nil {
		return "", "", err
	}
	return t.SystemPrompt, user, nil
}

// ComposeConversation renders the generation prompt with the built-in template.
func ComposeConversation(scenarios []string, mainPrompt string, persona Persona) string {
	out, err := NewComposerWithRegistry(persona, NewRegistry()).Conversation(scenarios, mainPrompt)
	if err != nil {
		// The built-in template is fixed and always renders.
		panic(err)
	}
	return out
}
