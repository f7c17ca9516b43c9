package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voicebot_sim/pkg/core/extraction"
)

func sampleRecords() []Record {
	env := extraction.NewEnvelope()
	env.Data.Answers = append(env.Data.Answers, extraction.Answer{ReportKey: "intent", AnswerValue: "reschedule <tomorrow>"})
	return []Record{
		{Scenario: "Lead wants a callback", Transcript: "Agent: Namaste, \"Priya\" here\nLead: Kal call karo", Entities: env},
		{Scenario: "Lead hangs up", Transcript: "Error generating response.", ExtractionError: "extraction call failed: boom"},
	}
}

func TestWrite_CSVColumns(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out", DefaultCSVName)
	gotCSV, gotJSON, err := Write(csvPath, sampleRecords())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if gotCSV != csvPath || gotJSON != strings.TrimSuffix(csvPath, ".csv")+".json" {
		t.Errorf("unexpected paths %s %s", gotCSV, gotJSON)
	}

	rows, err := ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	ok := rows[0]
	if ok.Transcript != "Agent: Namaste, \"Priya\" here\nLead: Kal call karo" {
		t.Errorf("transcript not preserved: %q", ok.Transcript)
	}
	wantPretty := "{\n  \"data\": {\n    \"outcome\": \"Entity Extraction Only\",\n    \"answers\": [\n      {\n        \"report_key\": \"intent\",\n        \"answer_value\": \"reschedule <tomorrow>\"\n      }\n    ]\n  }\n}"
	if ok.ExtractionOutput != wantPretty {
		t.Errorf("pretty output =\n%s\nwant\n%s", ok.ExtractionOutput, wantPretty)
	}
	wantCompact := `{"data":{"outcome":"Entity Extraction Only","answers":[{"report_key":"intent","answer_value":"reschedule <tomorrow>"}]}}`
	if ok.StructuredOutput != wantCompact {
		t.Errorf("compact output = %s", ok.StructuredOutput)
	}

	bad := rows[1]
	if bad.ExtractionOutput != "Error: extraction call failed: boom" || bad.StructuredOutput != "{}" {
		t.Errorf("unexpected degraded row %+v", bad)
	}
}

func TestWrite_JSONFile(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), DefaultCSVName)
	_, jsonPath, err := Write(csvPath, sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "[\n  {\n    \"scenarios\": \"Lead wants a callback\",") {
		t.Errorf("unexpected json layout:\n%s", text)
	}
	if !strings.Contains(text, "reschedule <tomorrow>") {
		t.Error("html characters should not be escaped")
	}
	if !strings.Contains(text, "\"entities\": {}") {
		t.Errorf("degraded record should have empty entities:\n%s", text)
	}

	records, err := ReadJSON(jsonPath)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(records) != 2 || records[0].Entities == nil || !records[1].Degraded() {
		t.Fatalf("unexpected records %+v", records)
	}
	if v, _ := records[0].Entities.Get("intent"); v != "reschedule <tomorrow>" {
		t.Errorf("unexpected entity value %q", v)
	}
}

func TestWrite_CSVAndJSONAgree(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "run.csv")
	_, jsonPath, err := Write(csvPath, sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	rows, _ := ReadCSV(csvPath)
	records, _ := ReadJSON(jsonPath)
	if len(rows) != len(records) {
		t.Fatalf("row count mismatch %d vs %d", len(rows), len(records))
	}
	for i := range rows {
		if rows[i].Scenario != records[i].Scenario || rows[i].Transcript != records[i].Transcript {
			t.Errorf("record %d differs between csv and json", i)
		}
	}
}

func TestWrite_Empty(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "empty.csv")
	_, jsonPath, err := Write(csvPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := ReadCSV(csvPath)
	if err != nil || len(rows) != 0 {
		t.Errorf("expected header-only csv, got %v %v", rows, err)
	}
	data, _ := os.ReadFile(jsonPath)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty array, got %s", data)
	}
}

func TestJSONPathFor(t *testing.T) {
	if got := JSONPathFor("/tmp/a/voicebot_output_enhanced.csv"); got != "/tmp/a/voicebot_output_enhanced.json" {
		t.Errorf("unexpected path %s", got)
	}
}
