package agent

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"voicebot_sim/pkg/core/llm"
)

// Roles used by the simulator.
const (
	RoleGenerator = "generator"
	RoleExtractor = "extractor"
)

// ErrNoProvider is returned when neither the role override nor the active
// provider resolves to a registered provider.
var ErrNoProvider = errors.New("no llm provider configured")

type Config struct {
	ActiveProvider string                 `yaml:"active_provider" json:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents" json:"agents"`
}

// AgentConfig tunes one role. Models is keyed by provider name so a provider
// switch never sends one vendor's model id to another; a provider with no
// entry runs its own default model.
type AgentConfig struct {
	Provider    string            `yaml:"provider" json:"provider,omitempty"` // Optional override
	Models      map[string]string `yaml:"models" json:"models,omitempty"`
	Temperature *float64          `yaml:"temperature" json:"temperature,omitempty"`
	MaxTokens   int               `yaml:"max_tokens" json:"max_tokens,omitempty"`
	Description string            `yaml:"description" json:"description,omitempty"`
}

// ModelFor returns the model configured for provider, or "" for the
// provider's default.
func (ac AgentConfig) ModelFor(provider string) string {
	return ac.Models[provider]
}

// DefaultConfig routes both roles through OpenAI. The generator runs gpt-4
// at temperature 0.8 with 1500 max tokens; the extractor runs gpt-4o-mini,
// which supports strict structured outputs, at temperature 0.
func DefaultConfig() Config {
	genTemp := 0.8
	extTemp := 0.0
	return Config{
		ActiveProvider: "openai",
		Agents: map[string]AgentConfig{
			RoleGenerator: {
				Models:      map[string]string{"openai": "gpt-4"},
				Temperature: &genTemp,
				MaxTokens:   1500,
				Description: "Synthetic call transcript generation",
			},
			RoleExtractor: {
				Models:      map[string]string{"openai": "gpt-4o-mini"},
				Temperature: &extTemp,
				Description: "Schema-guided entity extraction",
			},
		},
	}
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

// NewManager registers every built-in provider under its name.
func NewManager(config Config) *Manager {
	m := &Manager{config: config, providers: make(map[string]llm.Provider)}
	for _, name := range llm.Names {
		p, err := llm.NewProvider(name)
		if err != nil {
			continue
		}
		m.providers[name] = p
	}
	return m
}

// Register adds or replaces a provider under p.Name().
func (m *Manager) Register(p llm.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[p.Name()] = p
}

// Resolve returns the provider for role together with its call options. The
// model option is the one configured for that provider, so it follows a
// global switch.
func (m *Manager) Resolve(role string) (llm.Provider, map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, err := m.providerLocked(role)
	if err != nil {
		return nil, nil, err
	}
	return p, m.optionsLocked(role, p.Name()), nil
}

// providerLocked applies the role override first, then the global active
// provider.
func (m *Manager) providerLocked(role string) (llm.Provider, error) {
	if agentConfig, ok := m.config.Agents[role]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p, nil
		}
		log.Printf("[agent.Manager] provider %q for role %s not registered, using %q", agentConfig.Provider, role, m.config.ActiveProvider)
	}

	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: role=%s active=%q", ErrNoProvider, role, m.config.ActiveProvider)
}

func (m *Manager) optionsLocked(role, provider string) map[string]interface{} {
	opts := map[string]interface{}{}
	ac, ok := m.config.Agents[role]
	if !ok {
		return opts
	}
	if model := ac.ModelFor(provider); model != "" {
		opts[llm.OptModel] = model
	}
	if ac.Temperature != nil {
		opts[llm.OptTemperature] = *ac.Temperature
	}
	if ac.MaxTokens > 0 {
		opts[llm.OptMaxTokens] = ac.MaxTokens
	}
	return opts
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("%w: %s", llm.ErrUnknownProvider, newProvider)
	}
	m.config.ActiveProvider = newProvider
	log.Printf("[agent.Manager] Global provider set to: %s", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// ProviderNames lists registered providers, sorted.
func (m *Manager) ProviderNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := Config{ActiveProvider: m.config.ActiveProvider, Agents: make(map[string]AgentConfig, len(m.config.Agents))}
	for k, v := range m.config.Agents {
		models := make(map[string]string, len(v.Models))
		for provider, model := range v.Models {
			models[provider] = model
		}
		v.Models = models
		cfg.Agents[k] = v
	}
	return cfg
}
