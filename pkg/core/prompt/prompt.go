// Package prompt provides the prompt library for the simulator's two LLM calls.
// Built-in templates are registered at startup; JSON files loaded with
// LoadFromDirectory replace them by ID, so prompts can change without a rebuild.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// SourceBuiltin marks a template compiled into the binary.
const SourceBuiltin = "builtin"

// Template is one named prompt: an optional system prompt plus a Go template
// for the user turn. IDs are "<category>.<name>", e.g. "simulation.conversation".
type Template struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	SystemPrompt string     `json:"system_prompt"`
	UserTemplate string     `json:"user_prompt_template"`
	Variables    []Variable `json:"variables"`
	Version      string     `json:"version"`

	// Source is SourceBuiltin or the path of the override file.
	Source string `json:"-"`
}

// Variable declares one value the user template reads.
type Variable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     string `json:"default"`
}

// Vars holds the values a template is rendered with.
type Vars map[string]interface{}

// Render executes the user template. Declared variables absent from vars
// take their default; a required variable with neither is an error.
func (t *Template) Render(vars Vars) (string, error) {
	if t.UserTemplate == "" {
		return "", fmt.Errorf("prompt %s has no user template", t.ID)
	}

	data := make(Vars, len(vars)+len(t.Variables))
	for k, v := range vars {
		data[k] = v
	}
	for _, v := range t.Variables {
		if _, ok := data[v.Name]; ok {
			continue
		}
		if v.Default != "" {
			data[v.Name] = v.Default
			continue
		}
		if v.Required {
			return "", fmt.Errorf("prompt %s: missing required variable %s", t.ID, v.Name)
		}
	}

	tmpl, err := t.parse()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("prompt %s: render: %w", t.ID, err)
	}
	return buf.String(), nil
}

func (t *Template) parse() (*template.Template, error) {
	tmpl, err := template.New(t.ID).Option("missingkey=error").Parse(t.UserTemplate)
	if err != nil {
		return nil, fmt.Errorf("prompt %s: parse template: %w", t.ID, err)
	}
	return tmpl, nil
}

// mergeOver returns t with every empty field taken from base.
func (t Template) mergeOver(base *Template) *Template {
	if t.Name == "" {
		t.Name = base.Name
	}
	if t.Category == "" {
		t.Category = base.Category
	}
	if t.Description == "" {
		t.Description = base.Description
	}
	if t.SystemPrompt == "" {
		t.SystemPrompt = base.SystemPrompt
	}
	if t.UserTemplate == "" {
		t.UserTemplate = base.UserTemplate
	}
	if len(t.Variables) == 0 {
		t.Variables = base.Variables
	}
	if t.Version == "" {
		t.Version = base.Version
	}
	return &t
}
