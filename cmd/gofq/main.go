package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alejandrogzi/gofq/internal/cli"
)

// Version info
var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// Global flags
var (
	quiet   bool
	verbose bool
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "gofq",
	Short: "Resilient fastq downloader for ENA and SRA",
	Long: `gofq resolves sequencing-run accessions to read files and retrieves
them from ENA or the SRA toolkit, with retry, checksum verification,
and automatic provider fallback. Batches of accessions are processed
concurrently under a bounded in-flight limit.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Example: `  # Download one run
  gofq get SRR000001

  # Probe a project without downloading
  gofq probe PRJNA123456

  # Distribute a list across a cluster
  gofq nextflow accessions.txt --executor slurm`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			log.SetOutput(io.Discard)
		}
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	rootCmd.AddCommand(
		cli.NewGetCmd(),
		cli.NewMetadataCmd(),
		cli.NewProbeCmd(),
		cli.NewNextflowCmd(),
		cli.NewServerCmd(),
		cli.NewConfigCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
