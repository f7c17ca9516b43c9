// Package config loads the simulator settings from config/simulator.yaml
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"voicebot_sim/pkg/core/agent"
	"voicebot_sim/pkg/core/export"
	"voicebot_sim/pkg/core/form"
	"voicebot_sim/pkg/core/prompt"
)

// DefaultPath is read when neither an explicit path nor SIMULATOR_CONFIG is set.
const DefaultPath = "config/simulator.yaml"

type Config struct {
	agent.Config `yaml:",inline"`

	Persona      prompt.Persona `yaml:"persona"`
	Output       OutputConfig   `yaml:"output"`
	Log          LogConfig      `yaml:"log"`
	Server       ServerConfig   `yaml:"server"`
	ResourcesDir string         `yaml:"resources_dir"`
}

type OutputConfig struct {
	Dir       string `yaml:"dir"`
	CSVName   string `yaml:"csv_name"`
	AuditName string `yaml:"audit_name"`
}

type LogConfig struct {
	File       string `yaml:"file"` // empty disables the log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Config:  agent.DefaultConfig(),
		Persona: prompt.DefaultPersona,
		Output: OutputConfig{
			Dir:       ".",
			CSVName:   export.DefaultCSVName,
			AuditName: form.AuditFileName,
		},
		Log: LogConfig{
			File:       "logs/simulator.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server:       ServerConfig{Addr: ":8080"},
		ResourcesDir: "resources",
	}
}

// LoadEnv loads .env files into the environment. Missing files are ignored.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] failed to load env file: %v", err)
	}
}

// Load reads the YAML config at path over the defaults. An empty path means
// SIMULATOR_CONFIG, then DefaultPath; a missing DefaultPath is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("SIMULATOR_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			log.Printf("[config] %s not found, using defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields a partial YAML file left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.ActiveProvider == "" {
		c.ActiveProvider = def.ActiveProvider
	}
	if c.Agents == nil {
		c.Agents = map[string]agent.AgentConfig{}
	}
	for role, d := range def.Agents {
		ac := c.Agents[role]
		if ac.Models == nil {
			ac.Models = map[string]string{}
		}
		for provider, model := range d.Models {
			if _, ok := ac.Models[provider]; !ok {
				ac.Models[provider] = model
			}
		}
		if ac.Temperature == nil {
			ac.Temperature = d.Temperature
		}
		if ac.MaxTokens == 0 {
			ac.MaxTokens = d.MaxTokens
		}
		if ac.Description == "" {
			ac.Description = d.Description
		}
		c.Agents[role] = ac
	}
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}
	if c.Output.CSVName == "" {
		c.Output.CSVName = def.Output.CSVName
	}
	if c.Output.AuditName == "" {
		c.Output.AuditName = def.Output.AuditName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
}

// CSVPath is where the CSV dataset is written.
func (c Config) CSVPath() string {
	return filepath.Join(c.Output.Dir, c.Output.CSVName)
}

// AuditPath is where the submitted form is recorded.
func (c Config) AuditPath() string {
	return filepath.Join(c.Output.Dir, c.Output.AuditName)
}
