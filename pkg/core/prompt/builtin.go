package prompt

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	Conversation string
	Extraction   string
}{
	Conversation: "simulation.conversation",
	Extraction:   "extraction.entities",
}

const conversationTemplate = `You are a {{.AgentGender}} voicebot agent named {{.AgentName}}.

Refer to the behavioral instructions below for how to act and speak:
{{.MainPrompt}}

Instructions:
- The conversation should feel REAL, not perfect or scripted. Users may interrupt, ask off-topic questions, or speak in slang.
- Simulate realistic behavior like repetition, silence, partial understanding, or requesting a callback.
- Use a **mix of Hindi and English** based on the user's tone and input. Start in Hindi-English blend, unless the user speaks only English.
- End the call naturally -- could be resolution, a callback, or user dropping off.
- Conversation must follow a **dialogue format** with alternating 'Agent:' and 'Lead:' lines.

Scenarios to incorporate:
{{range .Scenarios}}- {{.}}
{{end}}
Generate a complete conversational transcript in alternating lines of Agent and Lead that incorporates these scenarios naturally.`

const extractionSystemPrompt = `You extract structured information from call-center conversation transcripts.

You are given a transcript and a list of output fields. Each field has a description telling you what to extract.
First fill "reasoning" with a short step-by-step account of where each value comes from in the transcript.
Then fill every output field with a plain string value.

Rules:
1. Only use information stated or clearly implied in the transcript.
2. If the transcript does not contain a value for a field, return an empty string for it.
3. Return ONLY a valid JSON object whose keys are exactly the output field names.`

const extractionUserTemplate = `{{.Fields}}
---

transcript:
{{.Transcript}}

Return the JSON object now.`

func builtinPrompts() []*Template {
	return []*Template{
		{
			ID:           PromptIDs.Conversation,
			Name:         "Call Transcript Generation",
			Category:     "simulation",
			Description:  "Asks the model for one synthetic agent/lead call covering the given scenarios",
			UserTemplate: conversationTemplate,
			Variables: []Variable{
				{Name: "AgentName", Type: "string", Required: true, Default: DefaultPersona.AgentName},
				{Name: "AgentGender", Type: "string", Required: true, Default: DefaultPersona.AgentGender},
				{Name: "MainPrompt", Type: "string", Required: true, Default: FallbackMainPrompt},
				{Name: "Scenarios", Type: "array", Required: true},
			},
			Version: "1",
		},
		{
			ID:           PromptIDs.Extraction,
			Name:         "Entity Extraction",
			Category:     "extraction",
			Description:  "Fills the runtime extraction contract from a transcript",
			SystemPrompt: extractionSystemPrompt,
			UserTemplate: extractionUserTemplate,
			Variables: []Variable{
				{Name: "Fields", Type: "string", Required: true},
				{Name: "Transcript", Type: "string", Required: true},
			},
			Version: "1",
		},
	}
}
