package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voicebot_sim/pkg/core/entity"
	"voicebot_sim/pkg/core/form"
	"voicebot_sim/pkg/core/ingest"
	"voicebot_sim/pkg/core/pipeline"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulation and write the CSV and JSON datasets",
	Long: `Run one transcript generation and one entity extraction per scenario.

Inputs come from --form (a voicebot_input_structure.json file) and/or flags;
flags are appended to the form. Entities are given as name:type:description.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().String("form", "", "Load main prompt, scenarios and entities from a JSON form file")
	simulateCmd.Flags().String("prompt", "", "Main behavioral prompt")
	simulateCmd.Flags().String("prompt-file", "", "Load the main prompt from a .txt, .md or .html file")
	simulateCmd.Flags().StringArrayP("scenario", "s", nil, "Scenario to simulate (repeatable)")
	simulateCmd.Flags().StringArrayP("entity", "e", nil, "Entity as name:type:description (repeatable)")
	simulateCmd.Flags().String("provider", "", "Override the active LLM provider for this run")
	simulateCmd.Flags().String("output-dir", "", "Directory for the output files")
	simulateCmd.Flags().Bool("json", false, "Print the run result as JSON")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	f, err := formFromFlags(cmd)
	if err != nil {
		return err
	}
	if len(f.Scenarios) == 0 {
		return fmt.Errorf("no scenarios given (use --scenario or --form)")
	}

	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		if err := agentMgr.SetGlobalProvider(provider); err != nil {
			return err
		}
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Output.Dir = dir
	}

	orch, err := pipeline.New(cfg, agentMgr)
	if err != nil {
		return err
	}
	result, err := orch.Run(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Simulation completed (%d samples, %d failed)\n  CSV:  %s\n  JSON: %s\n",
		len(result.Records), result.Failed, result.CSVPath, result.JSONPath)
	return nil
}

// formFromFlags builds the run form from --form and the inline flags.
func formFromFlags(cmd *cobra.Command) (form.Form, error) {
	var f form.Form

	if path, _ := cmd.Flags().GetString("form"); path != "" {
		loaded, err := form.LoadForm(path)
		if err != nil {
			return f, err
		}
		f = loaded
	}

	if p, _ := cmd.Flags().GetString("prompt"); p != "" {
		f.MainPrompt = p
	}
	if path, _ := cmd.Flags().GetString("prompt-file"); path != "" {
		text, err := ingest.LoadPrompt(path)
		if err != nil {
			return f, err
		}
		f.MainPrompt = text
	}

	scenarios, _ := cmd.Flags().GetStringArray("scenario")
	for _, s := range scenarios {
		f.AddScenario(s)
	}

	entities, _ := cmd.Flags().GetStringArray("entity")
	for _, raw := range entities {
		def, err := parseEntity(raw)
		if err != nil {
			return f, err
		}
		if err := f.AddEntity(def.Name, def.Type, def.Description); err != nil {
			return f, err
		}
	}
	return f, nil
}

// parseEntity parses name:type:description. The description may contain colons.
func parseEntity(raw string) (entity.Definition, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return entity.Definition{}, fmt.Errorf("invalid entity %q, expected name:type:description", raw)
	}
	return entity.Definition{
		Name:        strings.TrimSpace(parts[0]),
		Type:        strings.TrimSpace(parts[1]),
		Description: strings.TrimSpace(parts[2]),
	}, nil
}
