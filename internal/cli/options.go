package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alejandrogzi/gofq/internal/accession"
	"github.com/alejandrogzi/gofq/internal/config"
	"github.com/alejandrogzi/gofq/internal/download"
	"github.com/alejandrogzi/gofq/internal/ena"
	"github.com/alejandrogzi/gofq/internal/layout"
	"github.com/alejandrogzi/gofq/internal/pipeline"
	"github.com/alejandrogzi/gofq/internal/sra"
)

// runFlags are the retrieval flags shared by the get, metadata, and
// probe commands. Flags override config-file values only when set.
type runFlags struct {
	configPath  string
	outdir      string
	provider    string
	tool        string
	layoutName  string
	maxAttempts int
	sleepSecs   int
	threads     int
	jobs        int
	force       bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Config file (default: auto-detect)")
	cmd.Flags().StringVarP(&f.outdir, "outdir", "o", "", "Directory to write fastq files to")
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "Retrieval provider (ena|sra)")
	cmd.Flags().StringVar(&f.tool, "tool", "", "Transfer tool (aria2c|wget|curl)")
	cmd.Flags().StringVar(&f.layoutName, "layout", "", "Expected layout (single|paired|global)")
	cmd.Flags().IntVarP(&f.maxAttempts, "max-attempts", "m", 0, "Retries after the first failed attempt")
	cmd.Flags().IntVarP(&f.sleepSecs, "sleep", "s", 0, "Seconds to sleep between attempts")
	cmd.Flags().IntVarP(&f.threads, "threads", "t", 0, "Threads for extraction and compression")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "Concurrent accessions in a batch")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Overwrite existing files")
}

// resolveConfig loads the config file and applies flag overrides.
func (f *runFlags) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path := f.configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("outdir") {
		cfg.OutputDir = f.outdir
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = f.provider
	}
	if cmd.Flags().Changed("tool") {
		cfg.Tool = f.tool
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = f.maxAttempts
	}
	if cmd.Flags().Changed("sleep") {
		cfg.SleepSeconds = f.sleepSecs
	}
	if cmd.Flags().Changed("threads") {
		cfg.Threads = f.threads
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = f.jobs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildPipeline wires the per-accession processor and batch coordinator
// from resolved configuration.
func (f *runFlags) buildPipeline(cmd *cobra.Command, mode pipeline.Mode) (*pipeline.Coordinator, *config.Config, error) {
	cfg, err := f.resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	provider, err := pipeline.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}
	tool, err := download.ParseTool(cfg.Tool)
	if err != nil {
		return nil, nil, err
	}
	lay, err := layout.Parse(f.layoutName)
	if err != nil {
		return nil, nil, err
	}

	processor := pipeline.NewProcessor(
		accession.NewClassifier(),
		ena.NewClient(cfg.ENABaseURL),
		download.New(),
		sra.New(),
		pipeline.Options{
			Mode:        mode,
			Provider:    provider,
			Tool:        tool,
			Outdir:      cfg.OutputDir,
			Layout:      lay,
			Threads:     cfg.Threads,
			MaxAttempts: cfg.MaxAttempts,
			RetryDelay:  time.Duration(cfg.SleepSeconds) * time.Second,
			Overwrite:   f.force,
		},
	)

	return pipeline.NewCoordinator(processor, cfg.Jobs), cfg, nil
}
