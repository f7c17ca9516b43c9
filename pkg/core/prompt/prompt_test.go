package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voicebot_sim/pkg/core/entity"
)

func TestComposeConversation_Contents(t *testing.T) {
	out := ComposeConversation(
		[]string{"Lead asks for a callback tomorrow"},
		"  Be polite and confirm the loan amount.  ",
		Persona{AgentName: "Asha", AgentGender: "female"},
	)

	wants := []string{
		"You are a female voicebot agent named Asha.",
		"Refer to the behavioral instructions below for how to act and speak:\nBe polite and confirm the loan amount.\n",
		"Hindi and English",
		"'Agent:' and 'Lead:'",
		"Scenarios to incorporate:\n- Lead asks for a callback tomorrow\n\nGenerate a complete conversational transcript",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("expected prompt to contain %q\n--- prompt ---\n%s", want, out)
		}
	}
}

func TestComposeConversation_EmptyPromptFallback(t *testing.T) {
	out := ComposeConversation([]string{"x"}, "   \n\t", Persona{})

	if !strings.Contains(out, "act and speak:\n"+FallbackMainPrompt+"\n") {
		t.Errorf("expected fallback behavioral prompt, got:\n%s", out)
	}
	if !strings.Contains(out, "named Priya") || !strings.Contains(out, "a female voicebot") {
		t.Errorf("expected default persona, got:\n%s", out)
	}
}

func TestComposeConversation_MultipleScenarios(t *testing.T) {
	out := ComposeConversation([]string{"first", "second"}, "prompt", DefaultPersona)
	if !strings.Contains(out, "- first\n- second\n") {
		t.Errorf("expected bulleted scenarios, got:\n%s", out)
	}
}

func TestComposer_Extraction(t *testing.T) {
	contract, err := entity.BuildContract([]entity.Definition{
		{Name: "intent", Description: "Why the lead is calling"},
	})
	if err != nil {
		t.Fatal(err)
	}

	c := NewComposerWithRegistry(DefaultPersona, NewRegistry())
	system, user, err := c.Extraction(contract, "Agent: Hello\nLead: Call me later")
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}
	if !strings.Contains(system, "valid JSON object") {
		t.Errorf("unexpected system prompt: %s", system)
	}
	if !strings.Contains(user, "- intent: Why the lead is calling") {
		t.Errorf("fields missing from user prompt:\n%s", user)
	}
	if !strings.Contains(user, "Lead: Call me later") {
		t.Errorf("transcript missing from user prompt:\n%s", user)
	}
}

func TestRegistry_LoadDirectoryOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	promptDir := filepath.Join(dir, "prompts", "simulation")
	if err := os.MkdirAll(promptDir, 0755); err != nil {
		t.Fatal(err)
	}
	override := `{"name": "Short", "user_prompt_template": "{{.AgentName}}|{{.MainPrompt}}|{{range .Scenarios}}{{.}};{{end}}"}`
	if err := os.WriteFile(filepath.Join(promptDir, "conversation.json"), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadDirectory(dir); err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	pt, err := r.Lookup(PromptIDs.Conversation)
	if err != nil {
		t.Fatal(err)
	}
	if pt.Category != "simulation" {
		t.Errorf("expected category from folder, got %q", pt.Category)
	}

	out, err := NewComposerWithRegistry(Persona{AgentName: "Ravi", AgentGender: "male"}, r).Conversation([]string{"a", "b"}, "")
	if err != nil {
		t.Fatalf("Conversation failed: %v", err)
	}
	if out != "Ravi|"+FallbackMainPrompt+"|a;b;" {
		t.Errorf("unexpected override output: %q", out)
	}

	r.Reset()
	if pt, _ := r.Lookup(PromptIDs.Conversation); pt.UserTemplate != conversationTemplate {
		t.Error("Reset should restore the built-in template")
	}
}

func TestRegistry_LoadDirectoryMissing(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDirectory(t.TempDir()); err == nil {
		t.Error("expected error for missing prompts directory")
	}
	if r.Count() != 2 {
		t.Errorf("expected built-in prompts to survive, got %d", r.Count())
	}
}

func TestRegistry_OverrideInheritsBuiltinFields(t *testing.T) {
	r := NewRegistry()
	if err := r.Override(&Template{ID: PromptIDs.Extraction, UserTemplate: "{{.Fields}}#{{.Transcript}}"}); err != nil {
		t.Fatalf("Override failed: %v", err)
	}

	tmpl, err := r.Lookup(PromptIDs.Extraction)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.SystemPrompt != extractionSystemPrompt {
		t.Error("expected system prompt inherited from the built-in")
	}
	if len(tmpl.Variables) != 2 {
		t.Errorf("expected inherited variables, got %d", len(tmpl.Variables))
	}
	if got := r.Overrides(); len(got) != 1 || got[0] != PromptIDs.Extraction {
		t.Errorf("unexpected overrides: %v", got)
	}
}

func TestRegistry_LoadDirectoryReportsBadFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"simulation/conversation.json": `{"user_prompt_template": "{{.MainPrompt"}`,
		"extraction/unknown.json":      `{"user_prompt_template": "x"}`,
		"extraction/entities.json":     `{"system_prompt": "custom system"}`,
	}
	for name, body := range files {
		path := filepath.Join(dir, "prompts", name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	r := NewRegistry()
	err := r.LoadDirectory(dir)
	if err == nil {
		t.Fatal("expected errors for the broken and unknown files")
	}
	if !strings.Contains(err.Error(), "unknown prompt id") {
		t.Errorf("expected unknown id error, got: %v", err)
	}

	conv, _ := r.Lookup(PromptIDs.Conversation)
	if conv.Source != SourceBuiltin {
		t.Error("broken override must leave the built-in in place")
	}
	ext, _ := r.Lookup(PromptIDs.Extraction)
	if ext.SystemPrompt != "custom system" || ext.UserTemplate != extractionUserTemplate {
		t.Errorf("valid override not applied: %+v", ext)
	}
}

func TestTemplate_RenderVariables(t *testing.T) {
	tmpl := &Template{
		ID:           "test.vars",
		UserTemplate: "{{.Greeting}} {{.Name}}",
		Variables: []Variable{
			{Name: "Greeting", Default: "Namaste"},
			{Name: "Name", Required: true},
		},
	}

	out, err := tmpl.Render(Vars{"Name": "Rahul"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "Namaste Rahul" {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := tmpl.Render(Vars{}); err == nil || !strings.Contains(err.Error(), "missing required variable Name") {
		t.Errorf("expected missing variable error, got %v", err)
	}
}
