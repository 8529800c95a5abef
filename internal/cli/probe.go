package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alejandrogzi/gofq/internal/pipeline"
)

// NewProbeCmd creates the probe command
func NewProbeCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "probe ACCESSION...",
		Short: "Check whether read files are available for download",
		Long: `Report DOWNLOADABLE or NOT_FOUND for each accession, based only on
whether the portal lists remote read files. Nothing is transferred.

Examples:
  gofq probe SRR000001
  gofq probe accessions.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runProbe(cmd *cobra.Command, args []string, flags *runFlags) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	accessions, err := ParseAccessions(args)
	if err != nil {
		return err
	}

	coordinator, _, err := flags.buildPipeline(cmd, pipeline.ModeProbe)
	if err != nil {
		return err
	}

	outcomes := coordinator.Run(ctx, accessions)
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "FAILED  %s: %v\n", o.Accession, o.Err)
			continue
		}
		fmt.Printf("%s\t%s\n", o.Accession, o.Probe)
	}

	if failed := pipeline.Failed(outcomes); len(failed) > 0 {
		return fmt.Errorf("%d of %d accessions failed", len(failed), len(outcomes))
	}
	return nil
}
