package pipeline

import (
	"fmt"
	"log"

	"voicebot_sim/pkg/core/agent"
	"voicebot_sim/pkg/core/config"
	"voicebot_sim/pkg/core/extraction"
	"voicebot_sim/pkg/core/llm"
	"voicebot_sim/pkg/core/prompt"
	"voicebot_sim/pkg/core/transcript"
)

// New wires an orchestrator from configuration: the generator and extractor
// providers come from mgr, prompts from the global registry.
func New(cfg config.Config, mgr *agent.Manager) (*Orchestrator, error) {
	genProvider, genOpts, err := mgr.Resolve(agent.RoleGenerator)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	extProvider, extOpts, err := mgr.Resolve(agent.RoleExtractor)
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}
	log.Printf("[pipeline] generator=%s model=%q extractor=%s model=%q",
		genProvider.Name(), genOpts[llm.OptModel], extProvider.Name(), extOpts[llm.OptModel])

	composer := prompt.NewComposer(cfg.Persona)
	o := NewOrchestrator(
		composer,
		transcript.NewGenerator(genProvider, transcript.SettingsFromOptions(genOpts)),
		extraction.NewExtractor(extProvider, composer, extOpts),
		cfg.CSVPath(),
	)
	o.SetAuditPath(cfg.AuditPath())
	return o, nil
}
