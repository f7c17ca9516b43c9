package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"voicebot_sim/pkg/core/extraction"
)

// CSVRow is one data row of the CSV dataset, columns as written.
type CSVRow struct {
	Scenario         string
	Transcript       string
	ExtractionOutput string
	StructuredOutput string
}

// ReadCSV reads a dataset written by WriteCSV. The header must match CSVHeader.
func ReadCSV(path string) ([]CSVRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 || strings.Join(rows[0], ",") != strings.Join(CSVHeader, ",") {
		return nil, fmt.Errorf("read csv: unexpected header in %s", path)
	}

	out := make([]CSVRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, CSVRow{Scenario: row[0], Transcript: row[1], ExtractionOutput: row[2], StructuredOutput: row[3]})
	}
	return out, nil
}

// ReadJSON reads a dataset written by WriteJSON. Records whose entities are
// an empty object come back degraded, without the original error message.
func ReadJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}

	var raw []struct {
		Scenarios  string          `json:"scenarios"`
		Transcript string          `json:"transcript"`
		Entities   json.RawMessage `json:"entities"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json output: %w", err)
	}

	out := make([]Record, 0, len(raw))
	for i, r := range raw {
		rec := Record{Scenario: r.Scenarios, Transcript: r.Transcript}
		if ent := bytes.TrimSpace(r.Entities); len(ent) > 0 && string(ent) != "{}" && string(ent) != "null" {
			var env extraction.Envelope
			if err := json.Unmarshal(ent, &env); err != nil {
				return nil, fmt.Errorf("decode entities of record %d: %w", i+1, err)
			}
			rec.Entities = &env
		}
		out = append(out, rec)
	}
	return out, nil
}
