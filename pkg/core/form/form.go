// Package form holds the run inputs submitted by a user and the audit file
// written before each run.
package form

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voicebot_sim/pkg/core/entity"
)

// AuditFileName is the default name of the submitted-input audit file.
const AuditFileName = "voicebot_input_structure.json"

// Form is the set of inputs for one run.
type Form struct {
	MainPrompt string              `json:"main_prompt" yaml:"main_prompt"`
	Scenarios  []string            `json:"scenarios" yaml:"scenarios"`
	Entities   []entity.Definition `json:"entities" yaml:"entities"`
}

// AddScenario appends a scenario. Empty strings are ignored.
func (f *Form) AddScenario(s string) bool {
	if s == "" {
		return false
	}
	f.Scenarios = append(f.Scenarios, s)
	return true
}

// AddEntity appends an entity definition. Name, type and description are
// all required.
func (f *Form) AddEntity(name, typ, description string) error {
	if name == "" || typ == "" || description == "" {
		return fmt.Errorf("entity needs name, type and description (got name=%q type=%q)", name, typ)
	}
	f.Entities = append(f.Entities, entity.Definition{Name: name, Type: typ, Description: description})
	return nil
}

// Audit is the content of the audit file.
type Audit struct {
	Form
	RunID       string    `json:"run_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// WriteAudit stores the form as indented JSON at path.
func WriteAudit(path string, f Form, runID string) error {
	audit := Audit{Form: f, RunID: runID, SubmittedAt: time.Now().UTC()}
	if audit.Scenarios == nil {
		audit.Scenarios = []string{}
	}
	if audit.Entities == nil {
		audit.Entities = []entity.Definition{}
	}

	data, err := json.MarshalIndent(audit, "", "  ")
	if err != nil {
		return fmt.Errorf("encode audit: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write audit: %w", err)
	}
	return nil
}

// LoadForm reads a form from an audit file or any JSON file with the same
// main_prompt/scenarios/entities keys.
func LoadForm(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("read form: %w", err)
	}
	var audit Audit
	if err := json.Unmarshal(data, &audit); err != nil {
		return Form{}, fmt.Errorf("decode form %s: %w", path, err)
	}
	return audit.Form, nil
}

// Summary is a one-line description used in logs.
func (f Form) Summary() string {
	names := make([]string, 0, len(f.Entities))
	for _, e := range f.Entities {
		names = append(names, e.Name)
	}
	return fmt.Sprintf("%d scenarios, entities [%s]", len(f.Scenarios), strings.Join(names, ", "))
}
