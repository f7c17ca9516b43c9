package utils

import (
	"testing"
)

func TestCleanMarkdown(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Agent: Hello\nLead: Hi  ", "Agent: Hello\nLead: Hi"},
		{"json fence", "```json\n{\"a\": \"b\"}\n```", `{"a": "b"}`},
		{"bare fence", "```\nAgent: Hello\n```", "Agent: Hello"},
		{"markdown fence", "```markdown\nAgent: Hi\nLead: Bye\n```", "Agent: Hi\nLead: Bye"},
		{"content on first line", "```Agent: Hello\nLead: Hi```", "Agent: Hello\nLead: Hi"},
		{"inner fence untouched", "Agent: see ```code```", "Agent: see ```code```"},
	}
	for _, tc := range cases {
		if got := CleanMarkdown(tc.in); got != tc.want {
			t.Errorf("%s: CleanMarkdown(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSmartParse_Strategies(t *testing.T) {
	inputs := map[string]string{
		"plain":    `{"intent": "reschedule"}`,
		"fenced":   "```json\n{\"intent\": \"reschedule\"}\n```",
		"trailing": `{"intent": "reschedule",}`,
		"prose":    "Sure, here is the result:\n{\"intent\": \"reschedule\"}\nLet me know if you need more.",
	}
	for name, in := range inputs {
		var out map[string]interface{}
		if _, err := SmartParse(in, &out); err != nil {
			t.Errorf("%s: SmartParse failed: %v", name, err)
			continue
		}
		if out["intent"] != "reschedule" {
			t.Errorf("%s: expected intent=reschedule, got %v", name, out)
		}
	}
}

func TestSmartParse_Empty(t *testing.T) {
	var out map[string]interface{}
	if _, err := SmartParse("   ", &out); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestMarkdownToText(t *testing.T) {
	in := "# Loan Agent\n\nBe *polite* and confirm the `amount`.\n\n- Ask name\n- Ask city\n"
	want := "Loan Agent\nBe polite and confirm the amount.\nAsk name\nAsk city"
	if got := MarkdownToText(in); got != want {
		t.Errorf("MarkdownToText = %q, want %q", got, want)
	}
}
