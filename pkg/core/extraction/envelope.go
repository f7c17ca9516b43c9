package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"voicebot_sim/pkg/core/entity"
)

// Outcome is the fixed outcome label of every envelope.
const Outcome = "Entity Extraction Only"

// Answer is one extracted value.
type Answer struct {
	ReportKey   string `json:"report_key"`
	AnswerValue string `json:"answer_value"`
}

type Data struct {
	Outcome string   `json:"outcome"`
	Answers []Answer `json:"answers"`
}

// Envelope is the normalized result of one extraction call.
type Envelope struct {
	Data Data `json:"data"`
}

// NewEnvelope returns an envelope with no answers.
func NewEnvelope() *Envelope {
	return &Envelope{Data: Data{Outcome: Outcome, Answers: []Answer{}}}
}

// Get returns the answer for key.
func (e *Envelope) Get(key string) (string, bool) {
	for _, a := range e.Data.Answers {
		if a.ReportKey == key {
			return a.AnswerValue, true
		}
	}
	return "", false
}

// Normalize turns a raw model reply into an envelope: only declared output
// slots are kept, in contract order; the transcript echo and undeclared keys
// such as reasoning are dropped; values are stringified and trimmed, and
// empty values are omitted.
func Normalize(contract *entity.Contract, raw map[string]interface{}) *Envelope {
	env := NewEnvelope()
	for _, name := range contract.OutputNames() {
		if name == entity.TranscriptField {
			continue
		}
		v, ok := raw[name]
		if !ok {
			continue
		}
		value := strings.TrimSpace(stringify(v))
		if value == "" {
			continue
		}
		env.Data.Answers = append(env.Data.Answers, Answer{ReportKey: name, AnswerValue: value})
	}
	return env
}

// stringify renders strings as-is, null as empty, and everything else as
// compact JSON.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
