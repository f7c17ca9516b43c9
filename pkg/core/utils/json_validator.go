package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual LLM damage: unquoted keys, single quotes,
// trailing commas, comments, unclosed objects.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON reads Hjson and re-encodes it as standard JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(jsonBytes), nil
}

// ExtractObject returns the span from the first '{' to the last '}', for
// replies that wrap the object in prose.
func ExtractObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("JSON_OBJECT_NOT_FOUND")
	}
	return s[start : end+1], nil
}

type parseStrategy struct {
	name    string
	convert func(string) (string, error)
}

// Cheapest first; hjson is the most lenient and goes last.
var parseStrategies = []parseStrategy{
	{"json", func(s string) (string, error) { return s, nil }},
	{"object", ExtractObject},
	{"repair", RepairJSON},
	{"hjson", ParseHJSON},
}

// SmartParse decodes an LLM reply into out, stripping an outer code fence
// and then trying each strategy in turn. It returns the JSON text that
// decoded.
func SmartParse(input string, out interface{}) (string, error) {
	input = strings.TrimSpace(CleanMarkdown(input))
	if input == "" {
		return "", fmt.Errorf("SMART_PARSE_FAILED: empty input")
	}

	var lastErr error
	for _, s := range parseStrategies {
		text, err := s.convert(input)
		if err != nil {
			lastErr = err
			continue
		}
		if err := json.Unmarshal([]byte(text), out); err != nil {
			lastErr = fmt.Errorf("%s: %w", s.name, err)
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("SMART_PARSE_FAILED: %v", lastErr)
}
