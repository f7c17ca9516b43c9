package agent

import (
	"context"
	"errors"
	"testing"

	"voicebot_sim/pkg/core/llm"
)

type MockProvider struct {
	name                 string
	GenerateResponseFunc func(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error)
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return m.GenerateResponseFunc(ctx, prompt, systemPrompt, options)
}

func (m *MockProvider) AdaptInstructions(raw string) string { return raw }

func resolvedName(t *testing.T, m *Manager, role string) string {
	t.Helper()
	p, _, err := m.Resolve(role)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", role, err)
	}
	return p.Name()
}

func optionsFor(t *testing.T, m *Manager, role string) map[string]interface{} {
	t.Helper()
	_, opts, err := m.Resolve(role)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", role, err)
	}
	return opts
}

func TestManager_RoleOverrideAndActive(t *testing.T) {
	cfg := DefaultConfig()
	ext := cfg.Agents[RoleExtractor]
	ext.Provider = "gemini"
	cfg.Agents[RoleExtractor] = ext

	m := NewManager(cfg)

	if got := resolvedName(t, m, RoleGenerator); got != "openai" {
		t.Errorf("generator should use active provider, got %s", got)
	}
	if got := resolvedName(t, m, RoleExtractor); got != "gemini" {
		t.Errorf("extractor should use its override, got %s", got)
	}

	if err := m.SetGlobalProvider("ollama"); err != nil {
		t.Fatal(err)
	}
	if got := resolvedName(t, m, RoleGenerator); got != "ollama" {
		t.Errorf("expected ollama after switch, got %s", got)
	}
	if got := resolvedName(t, m, RoleExtractor); got != "gemini" {
		t.Errorf("override should survive a global switch, got %s", got)
	}
}

func TestManager_SetGlobalProviderUnknown(t *testing.T) {
	m := NewManager(DefaultConfig())
	if err := m.SetGlobalProvider("nope"); !errors.Is(err, llm.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
	if m.GetActiveProvider() != "openai" {
		t.Errorf("active provider should be unchanged, got %s", m.GetActiveProvider())
	}
}

func TestManager_NoProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "missing"})
	if _, _, err := m.Resolve(RoleGenerator); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}

func TestManager_ResolveDefaultModels(t *testing.T) {
	m := NewManager(DefaultConfig())

	p, opts, err := m.Resolve(RoleExtractor)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "openai" || opts[llm.OptModel] != "gpt-4o-mini" || opts[llm.OptTemperature] != 0.0 {
		t.Errorf("unexpected extractor resolution %s %v", p.Name(), opts)
	}
	if opts := optionsFor(t, m, RoleGenerator); opts[llm.OptModel] != "gpt-4" || opts[llm.OptMaxTokens] != 1500 {
		t.Errorf("unexpected generator options %v", opts)
	}
}

func TestManager_SwitchDropsOtherProvidersModel(t *testing.T) {
	var gotOpts map[string]interface{}
	gemini := &MockProvider{
		name: "gemini",
		GenerateResponseFunc: func(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
			gotOpts = options
			return "ok", nil
		},
	}

	cfg := DefaultConfig()
	gen := cfg.Agents[RoleGenerator]
	gen.Models["ollama"] = "llama3.2:3b"
	cfg.Agents[RoleGenerator] = gen

	m := NewManager(cfg)
	m.Register(gemini)
	if err := m.SetGlobalProvider("gemini"); err != nil {
		t.Fatal(err)
	}

	p, opts, err := m.Resolve(RoleExtractor)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.GenerateResponse(context.Background(), "u", "", opts); err != nil {
		t.Fatal(err)
	}
	if _, ok := gotOpts[llm.OptModel]; ok {
		t.Errorf("gemini must not receive an OpenAI model, got %v", gotOpts[llm.OptModel])
	}
	if gotOpts[llm.OptTemperature] != 0.0 {
		t.Errorf("role temperature should still apply, got %v", gotOpts)
	}

	if err := m.SetGlobalProvider("ollama"); err != nil {
		t.Fatal(err)
	}
	if model := optionsFor(t, m, RoleGenerator)[llm.OptModel]; model != "llama3.2:3b" {
		t.Errorf("expected the ollama model for the generator, got %v", model)
	}
}

func TestManager_ConfigIsCopy(t *testing.T) {
	m := NewManager(DefaultConfig())
	cfg := m.Config()
	cfg.Agents[RoleGenerator].Models["openai"] = "changed"
	if optionsFor(t, m, RoleGenerator)[llm.OptModel] != "gpt-4" {
		t.Error("mutating the returned config should not affect the manager")
	}
}
