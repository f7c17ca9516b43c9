package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"voicebot_sim/pkg/core/agent"
	"voicebot_sim/pkg/core/config"
	"voicebot_sim/pkg/core/prompt"
)

var (
	configPath string
	cfg        config.Config
	agentMgr   *agent.Manager
	logWriter  io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Generate synthetic call transcripts and extract entities from them",
	Long: `simulator generates one synthetic agent/lead call per scenario with an LLM,
extracts user-defined entities from each transcript with a second schema-guided
call, and writes the results as CSV and JSON.

Examples:
  simulator simulate --form voicebot_input_structure.json
  simulator simulate --prompt "Be polite" --scenario "Lead asks for a callback" \
      --entity "intent:string:Why the lead called"
  simulator contract --entity "intent:string:Why the lead called"
  simulator serve --addr :8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		setupLogging(cfg.Log)

		if err := prompt.LoadFromDirectory(resourcesDir(cfg.ResourcesDir)); err != nil {
			log.Printf("[simulator] prompt overrides not loaded, using built-in prompts: %v", err)
		}

		agentMgr = agent.NewManager(cfg.Config)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to simulator.yaml (default $SIMULATOR_CONFIG or config/simulator.yaml)")
}

// setupLogging sends the standard logger to stderr and, when configured, to
// a size-rotated log file.
func setupLogging(lc config.LogConfig) {
	log.SetFlags(log.LstdFlags)
	if lc.File == "" {
		log.SetOutput(os.Stderr)
		return
	}

	lj := &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   lc.Compress,
	}
	logWriter = lj
	log.SetOutput(io.MultiWriter(os.Stderr, lj))
}

// resourcesDir falls back to the directory next to the executable when dir
// does not exist relative to the working directory.
func resourcesDir(dir string) string {
	if _, err := os.Stat(dir); err == nil || filepath.IsAbs(dir) {
		return dir
	}
	exePath, err := os.Executable()
	if err != nil {
		return dir
	}
	return filepath.Join(filepath.Dir(exePath), dir)
}

// closeLog releases the rotating log file, if one was opened.
func closeLog() {
	if logWriter != nil {
		_ = logWriter.Close()
		logWriter = nil
	}
	log.SetOutput(os.Stderr)
}

// run executes the command line and closes the log file whether or not the
// command failed.
func run(ctx context.Context) error {
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
