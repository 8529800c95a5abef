// Package config loads and saves the gofq YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrogzi/gofq/internal/paths"
	"gopkg.in/yaml.v3"
)

// Config represents the gofq configuration. Flags override file values.
type Config struct {
	OutputDir    string         `yaml:"output_dir"`
	Provider     string         `yaml:"provider"`      // "ena" or "sra"
	Tool         string         `yaml:"tool"`          // aria2c, wget, or curl
	MaxAttempts  int            `yaml:"max_attempts"`  // retries after the first failure
	SleepSeconds int            `yaml:"sleep_seconds"` // delay between attempts
	Threads      int            `yaml:"threads"`       // extraction/compression threads
	Jobs         int            `yaml:"jobs"`          // concurrent accessions in a batch
	ENABaseURL   string         `yaml:"ena_base_url"`  // portal override, empty = public ENA
	Server       ServerConfig   `yaml:"server"`
	Nextflow     NextflowConfig `yaml:"nextflow"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// NextflowConfig holds cluster-submission defaults.
type NextflowConfig struct {
	Executor string `yaml:"executor"` // local, slurm, sge
	Queue    string `yaml:"queue"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		OutputDir:    paths.GetDefaultOutdir(),
		Provider:     "ena",
		Tool:         "aria2c",
		MaxAttempts:  10,
		SleepSeconds: 10,
		Threads:      4,
		Jobs:         50,
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Nextflow: NextflowConfig{
			Executor: "local",
			Queue:    "null",
		},
	}
}

// Load loads configuration from a file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.OutputDir = expandPath(config.OutputDir)
	return config, nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks field values that cannot be checked at parse time.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "", "ena", "sra":
	default:
		return fmt.Errorf("invalid provider %q (want ena or sra)", c.Provider)
	}

	switch strings.ToLower(c.Tool) {
	case "", "aria2c", "wget", "curl":
	default:
		return fmt.Errorf("invalid tool %q (want aria2c, wget, or curl)", c.Tool)
	}

	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative")
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative")
	}
	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	if path := os.Getenv("GOFQ_CONFIG"); path != "" {
		return path
	}

	// Check current directory
	if _, err := os.Stat("gofq.yaml"); err == nil {
		return "gofq.yaml"
	}

	return paths.GetConfigPath()
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
