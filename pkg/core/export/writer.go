// Package export writes the records of a run to the CSV and JSON datasets
// and reads them back.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voicebot_sim/pkg/core/extraction"
)

// DefaultCSVName is the CSV file name used when none is configured.
const DefaultCSVName = "voicebot_output_enhanced.csv"

// CSVHeader is the fixed column order of the CSV dataset.
var CSVHeader = []string{"Scenario Summary", "Call Transcript", "Entity Extraction Output", "Structured Output"}

// Record is the outcome of one scenario. Entities is nil when extraction
// failed, in which case ExtractionError holds the reason.
type Record struct {
	Scenario        string
	Transcript      string
	Entities        *extraction.Envelope
	ExtractionError string
}

// Degraded reports whether extraction failed for this record.
func (r Record) Degraded() bool {
	return r.Entities == nil
}

// JSONPathFor returns csvPath with its extension replaced by .json.
func JSONPathFor(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".json"
}

// Write stores records as CSV at csvPath and then as JSON next to it.
func Write(csvPath string, records []Record) (string, string, error) {
	if err := WriteCSV(csvPath, records); err != nil {
		return "", "", err
	}
	jsonPath := JSONPathFor(csvPath)
	if err := WriteJSON(jsonPath, records); err != nil {
		return "", "", err
	}
	return csvPath, jsonPath, nil
}

// WriteCSV writes the header and one row per record.
func WriteCSV(path string, records []Record) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, r := range records {
		extractionOut, structuredOut := "Error: "+r.ExtractionError, "{}"
		if !r.Degraded() {
			var err error
			if extractionOut, err = encode(r.Entities, "  "); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			if structuredOut, err = encode(r.Entities, ""); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		if err := w.Write([]string{r.Scenario, r.Transcript, extractionOut, structuredOut}); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

type jsonRecord struct {
	Scenarios  string      `json:"scenarios"`
	Transcript string      `json:"transcript"`
	Entities   interface{} `json:"entities"`
}

// WriteJSON writes an array of {scenarios, transcript, entities} objects.
// Degraded records carry an empty object as entities.
func WriteJSON(path string, records []Record) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		var entities interface{} = map[string]interface{}{}
		if !r.Degraded() {
			entities = r.Entities
		}
		out = append(out, jsonRecord{Scenarios: r.Scenario, Transcript: r.Transcript, Entities: entities})
	}

	data, err := encode(out, "  ")
	if err != nil {
		return err
	}
	return writeFile(path, []byte(data))
}

// writeFile creates the parent directory when missing and writes data in a
// single open/write/close.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// encode renders v as JSON without HTML escaping; indent "" means compact.
func encode(v interface{}, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
