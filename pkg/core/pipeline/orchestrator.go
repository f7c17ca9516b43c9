// Package pipeline runs a simulation: one generated transcript and one
// extraction per scenario, then the CSV and JSON datasets.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"voicebot_sim/pkg/core/entity"
	"voicebot_sim/pkg/core/export"
	"voicebot_sim/pkg/core/extraction"
	"voicebot_sim/pkg/core/form"
)

// PromptComposer renders the generation prompt for a scenario list.
type PromptComposer interface {
	Conversation(scenarios []string, mainPrompt string) (string, error)
}

// TranscriptGenerator produces a transcript. It never fails; failures come
// back as a sentinel transcript.
type TranscriptGenerator interface {
	Generate(ctx context.Context, prompt string) string
}

// EntityExtractor fills a contract from a transcript.
type EntityExtractor interface {
	Extract(ctx context.Context, contract *entity.Contract, transcript string) (*extraction.Envelope, error)
}

// RunResult describes a finished run.
type RunResult struct {
	RunID    string          `json:"run_id"`
	CSVPath  string          `json:"csv_path"`
	JSONPath string          `json:"json_path"`
	Records  []export.Record `json:"-"`
	Failed   int             `json:"failed"`
	Duration time.Duration   `json:"duration"`
}

// Orchestrator runs scenarios strictly one after another.
type Orchestrator struct {
	composer  PromptComposer
	generator TranscriptGenerator
	extractor EntityExtractor
	csvPath   string
	auditPath string
}

// NewOrchestrator creates an orchestrator that writes its CSV to csvPath
// and its JSON next to it.
func NewOrchestrator(composer PromptComposer, generator TranscriptGenerator, extractor EntityExtractor, csvPath string) *Orchestrator {
	if csvPath == "" {
		csvPath = export.DefaultCSVName
	}
	return &Orchestrator{
		composer:  composer,
		generator: generator,
		extractor: extractor,
		csvPath:   csvPath,
	}
}

// SetAuditPath enables writing the submitted form to path before each run.
func (o *Orchestrator) SetAuditPath(path string) {
	o.auditPath = path
}

// CSVPath returns the path the CSV dataset is written to.
func (o *Orchestrator) CSVPath() string {
	return o.csvPath
}

// Run processes every scenario of f in order. A scenario whose extraction
// fails yields a degraded record and the run continues. Only an invalid
// entity list or a failure to write the outputs stops a run.
func (o *Orchestrator) Run(ctx context.Context, f form.Form) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	if o.auditPath != "" {
		if err := form.WriteAudit(o.auditPath, f, runID); err != nil {
			return nil, err
		}
	}

	contract, err := entity.BuildContract(f.Entities)
	if err != nil {
		return nil, fmt.Errorf("invalid entities: %w", err)
	}

	log.Printf("[pipeline] Run %s started: %s", runID, f.Summary())

	total := len(f.Scenarios)
	records := make([]export.Record, 0, total)
	failed := 0
	for i, scenario := range f.Scenarios {
		log.Printf("[pipeline] Generating sample %d/%d for scenario: %s", i+1, total, scenario)

		rec, err := o.runScenario(ctx, contract, f.MainPrompt, scenario)
		if err != nil {
			log.Printf("[pipeline] Error processing sample %d: %v", i+1, err)
			rec.ExtractionError = err.Error()
			failed++
		} else {
			log.Printf("[pipeline] Sample %d completed successfully", i+1)
		}
		records = append(records, rec)
	}

	csvPath, jsonPath, err := export.Write(o.csvPath, records)
	if err != nil {
		return nil, fmt.Errorf("write outputs: %w", err)
	}

	result := &RunResult{
		RunID:    runID,
		CSVPath:  csvPath,
		JSONPath: jsonPath,
		Records:  records,
		Failed:   failed,
		Duration: time.Since(start),
	}
	log.Printf("[pipeline] Run %s finished in %s: %d records (%d failed) -> %s, %s",
		runID, result.Duration.Round(time.Millisecond), len(records), failed, csvPath, jsonPath)
	return result, nil
}

// runScenario composes, generates and extracts for one scenario. The
// returned record always carries the scenario and whatever transcript was
// produced.
func (o *Orchestrator) runScenario(ctx context.Context, contract *entity.Contract, mainPrompt, scenario string) (export.Record, error) {
	rec := export.Record{Scenario: scenario}

	conversationPrompt, err := o.composer.Conversation([]string{scenario}, mainPrompt)
	if err != nil {
		return rec, fmt.Errorf("compose prompt: %w", err)
	}

	rec.Transcript = o.generator.Generate(ctx, conversationPrompt)

	env, err := o.extractor.Extract(ctx, contract, rec.Transcript)
	if err != nil {
		return rec, err
	}
	rec.Entities = env
	return rec, nil
}

// RunEnhancedSimulation runs the form built from the given inputs and
// returns the paths of the CSV and JSON datasets.
func (o *Orchestrator) RunEnhancedSimulation(ctx context.Context, mainPrompt string, scenarios []string, entities []entity.Definition) (string, string, error) {
	result, err := o.Run(ctx, form.Form{MainPrompt: mainPrompt, Scenarios: scenarios, Entities: entities})
	if err != nil {
		return "", "", err
	}
	return result.CSVPath, result.JSONPath, nil
}
