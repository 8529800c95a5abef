package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/pipeline"
)

// NewGetCmd creates the get command
func NewGetCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "get ACCESSION...",
		Short: "Download and verify fastq files for accessions",
		Long: `Download fastq files for one or more accessions.

Accessions are resolved through the ENA portal API; the reads are then
fetched either directly from ENA mirrors or through the SRA toolkit.
Downloads are verified against the checksums the portal reports, and
files already on disk are skipped unless --force is given.

Examples:
  # Download a single run
  gofq get SRR000001

  # Several accessions at once
  gofq get SRR000001,ERR000002 --outdir reads/

  # From a list file, through the SRA toolkit
  gofq get accessions.txt --provider sra --threads 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runGet(cmd *cobra.Command, args []string, flags *runFlags) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	accessions, err := ParseAccessions(args)
	if err != nil {
		return err
	}

	coordinator, _, err := flags.buildPipeline(cmd, pipeline.ModeDownload)
	if err != nil {
		return err
	}

	outcomes := coordinator.Run(ctx, accessions)
	reportOutcomes(outcomes)

	if failed := pipeline.Failed(outcomes); len(failed) > 0 {
		return fmt.Errorf("%d of %d accessions failed", len(failed), len(outcomes))
	}
	return nil
}

// reportOutcomes prints one line per accession with its files or its
// classified failure.
func reportOutcomes(outcomes []pipeline.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "FAILED  %s: %v\n", o.Accession, o.Err)
			if n := errors.GetAttempts(o.Err); n > 0 {
				fmt.Fprintf(os.Stderr, "        %s: gave up after %d attempts\n", o.Accession, n)
			}
			continue
		}
		fmt.Printf("OK      %s: %d downloaded, %d skipped\n", o.Accession, o.Downloaded, o.Skipped)
		for _, f := range o.Files {
			fmt.Printf("        %s\n", f)
		}
	}
}
