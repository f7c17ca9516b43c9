// Package entity turns user-defined entity definitions into the extraction
// contract that the entity extractor asks the model to fill.
package entity

import (
	"fmt"
	"log"
	"strings"
)

const (
	// TranscriptField is the single input slot of every contract.
	TranscriptField = "transcript"
	// ReasoningField is filled by the model before the declared outputs.
	ReasoningField = "reasoning"

	transcriptDescription = "Complete conversation transcript between agent and lead"
	reasoningDescription  = "Think step by step about which parts of the transcript answer each field before filling them in"
)

// Definition is a single entity submitted with a run.
// Type is accepted from the form but not used by extraction.
type Definition struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Field is one slot of a contract.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Contract is the runtime-defined shape of an extraction call:
// one input slot (the transcript) and an ordered set of output slots.
type Contract struct {
	input   Field
	outputs []Field
	index   map[string]int
}

// BuildContract creates a contract from definitions in submission order.
//
// Each definition needs a non-empty name and description. Two definitions
// with the same name share one slot: the slot stays where the name first
// appeared and takes the later description.
func BuildContract(defs []Definition) (*Contract, error) {
	c := &Contract{
		input: Field{Name: TranscriptField, Description: transcriptDescription},
		index: make(map[string]int, len(defs)),
	}

	for i, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("entity %d: name is required", i)
		}
		if strings.TrimSpace(def.Description) == "" {
			return nil, fmt.Errorf("entity %d (%s): description is required", i, def.Name)
		}

		if pos, exists := c.index[def.Name]; exists {
			log.Printf("[entity] duplicate entity name %q, later description replaces the earlier one", def.Name)
			c.outputs[pos].Description = def.Description
			continue
		}
		c.index[def.Name] = len(c.outputs)
		c.outputs = append(c.outputs, Field{Name: def.Name, Description: def.Description})
	}

	return c, nil
}

// Input returns the transcript slot.
func (c *Contract) Input() Field {
	return c.input
}

// Outputs returns a copy of the output slots in contract order.
func (c *Contract) Outputs() []Field {
	out := make([]Field, len(c.outputs))
	copy(out, c.outputs)
	return out
}

// OutputNames returns the output slot names in contract order.
func (c *Contract) OutputNames() []string {
	names := make([]string, 0, len(c.outputs))
	for _, f := range c.outputs {
		names = append(names, f.Name)
	}
	return names
}

// Has reports whether name is a declared output slot.
func (c *Contract) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of output slots.
func (c *Contract) Len() int {
	return len(c.outputs)
}

// Describe renders the contract as a field listing for prompts.
func (c *Contract) Describe() string {
	var b strings.Builder
	b.WriteString("Input fields:\n")
	b.WriteString(fmt.Sprintf("- %s: %s\n", c.input.Name, c.input.Description))
	b.WriteString("\nOutput fields:\n")
	if !c.Has(ReasoningField) {
		b.WriteString(fmt.Sprintf("- %s: %s\n", ReasoningField, reasoningDescription))
	}
	for _, f := range c.outputs {
		b.WriteString(fmt.Sprintf("- %s: %s\n", f.Name, f.Description))
	}
	return b.String()
}

// JSONSchema renders the outputs as a JSON-schema object. The reasoning
// slot comes first so the model writes its reasoning before the answers;
// "required" lists every slot in contract order.
func (c *Contract) JSONSchema() map[string]interface{} {
	properties := map[string]interface{}{
		ReasoningField: map[string]interface{}{
			"type":        "string",
			"description": reasoningDescription,
		},
	}
	ordering := make([]string, 0, len(c.outputs)+1)
	ordering = append(ordering, ReasoningField)
	for _, f := range c.outputs {
		properties[f.Name] = map[string]interface{}{
			"type":        "string",
			"description": f.Description,
		}
		if f.Name == ReasoningField {
			continue
		}
		ordering = append(ordering, f.Name)
	}

	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             ordering,
		"additionalProperties": false,
	}
}
