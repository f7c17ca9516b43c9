// Package simulation exposes runs, contract previews, prompt uploads and
// output downloads over HTTP.
package simulation

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"

	"voicebot_sim/pkg/core/entity"
	"voicebot_sim/pkg/core/export"
	"voicebot_sim/pkg/core/form"
	"voicebot_sim/pkg/core/ingest"
	"voicebot_sim/pkg/core/pipeline"
)

// maxPromptUpload caps uploaded prompt files.
const maxPromptUpload = 1 << 20

// Runner executes one run.
type Runner interface {
	Run(ctx context.Context, f form.Form) (*pipeline.RunResult, error)
	CSVPath() string
}

// RunnerFactory builds a runner for the current configuration. It is called
// per request so a provider switch applies to the next run.
type RunnerFactory func() (Runner, error)

type Handler struct {
	newRunner RunnerFactory
	mu        sync.Mutex
	csvPath   string
}

// NewHandler creates a handler. csvPath is the configured CSV location;
// downloads are restricted to it and its JSON sibling.
func NewHandler(newRunner RunnerFactory, csvPath string) *Handler {
	return &Handler{newRunner: newRunner, csvPath: csvPath}
}

// Register mounts the simulation routes on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/simulation/run", h.HandleRun)
	rg.POST("/simulation/contract", h.HandleContract)
	rg.POST("/simulation/prompt", h.HandlePromptUpload)
	rg.GET("/simulation/files/:name", h.HandleDownload)
}

type RunResponse struct {
	RunID    string          `json:"run_id"`
	CSVFile  string          `json:"csv_file"`
	JSONFile string          `json:"json_file"`
	Records  int             `json:"records"`
	Failed   int             `json:"failed"`
	Samples  []SampleSummary `json:"samples"`
}

type SampleSummary struct {
	Scenario string `json:"scenario"`
	Answers  int    `json:"answers"`
	Error    string `json:"error,omitempty"`
}

// HandleRun runs a simulation synchronously. Runs are serialized because
// every run writes the same output files.
func (h *Handler) HandleRun(c *gin.Context) {
	var f form.Form
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if _, err := entity.BuildContract(f.Entities); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runner, err := h.newRunner()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	result, err := runner.Run(c.Request.Context(), f)
	h.mu.Unlock()
	if err != nil {
		log.Printf("[api.simulation] run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Simulation failed: " + err.Error()})
		return
	}

	resp := RunResponse{
		RunID:    result.RunID,
		CSVFile:  filepath.Base(result.CSVPath),
		JSONFile: filepath.Base(result.JSONPath),
		Records:  len(result.Records),
		Failed:   result.Failed,
		Samples:  make([]SampleSummary, 0, len(result.Records)),
	}
	for _, rec := range result.Records {
		s := SampleSummary{Scenario: rec.Scenario, Error: rec.ExtractionError}
		if rec.Entities != nil {
			s.Answers = len(rec.Entities.Data.Answers)
		}
		resp.Samples = append(resp.Samples, s)
	}
	c.JSON(http.StatusOK, resp)
}

type ContractRequest struct {
	Entities []entity.Definition `json:"entities"`
}

// HandleContract previews the extraction contract for a list of entities.
func (h *Handler) HandleContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	contract, err := entity.BuildContract(req.Entities)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"input":   contract.Input(),
		"outputs": contract.Outputs(),
		"fields":  contract.Describe(),
		"schema":  contract.JSONSchema(),
	})
}

// HandlePromptUpload converts an uploaded .txt, .md or .html prompt to text.
func (h *Handler) HandlePromptUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing prompt file"})
		return
	}
	if file.Size > maxPromptUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read prompt file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPromptUpload))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read prompt file"})
		return
	}

	text, err := ingest.ParsePrompt(file.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": file.Filename, "main_prompt": text})
}

// HandleDownload serves the CSV or JSON dataset by file name.
func (h *Handler) HandleDownload(c *gin.Context) {
	name := c.Param("name")
	csvName := filepath.Base(h.csvPath)
	jsonPath := export.JSONPathFor(h.csvPath)

	var path, mime string
	switch name {
	case csvName:
		path, mime = h.csvPath, "text/csv"
	case filepath.Base(jsonPath):
		path, mime = jsonPath, "application/json"
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown output file"})
		return
	}

	c.Header("Content-Type", mime)
	c.FileAttachment(path, name)
}
