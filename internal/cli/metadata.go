package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alejandrogzi/gofq/internal/ena"
	"github.com/alejandrogzi/gofq/internal/pipeline"
	"github.com/alejandrogzi/gofq/internal/ui"
)

// NewMetadataCmd creates the metadata command
func NewMetadataCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "metadata ACCESSION...",
		Short: "Show run metadata without downloading",
		Long: `Resolve accessions to their run records and print the fields the
portal reports, without transferring any files.

Examples:
  gofq metadata SRR000001
  gofq metadata PRJNA123456`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadata(cmd, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runMetadata(cmd *cobra.Command, args []string, flags *runFlags) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	accessions, err := ParseAccessions(args)
	if err != nil {
		return err
	}

	coordinator, _, err := flags.buildPipeline(cmd, pipeline.ModeMetadata)
	if err != nil {
		return err
	}

	var outcomes []pipeline.Outcome
	err = ui.While("Fetching metadata", func() error {
		outcomes = coordinator.Run(ctx, accessions)
		return nil
	})
	if err != nil {
		return err
	}

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "FAILED  %s: %v\n", o.Accession, o.Err)
			continue
		}
		fmt.Printf("%s: %d run record(s)\n", o.Accession, len(o.Records))
		for i, rec := range o.Records {
			printRecord(i, rec)
		}
	}

	if failed := pipeline.Failed(outcomes); len(failed) > 0 {
		return fmt.Errorf("%d of %d accessions failed", len(failed), len(outcomes))
	}
	return nil
}

func printRecord(index int, rec ena.Record) {
	fields := make([]string, 0, len(rec))
	for k := range rec {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  run %d\n", index+1)
	for _, k := range fields {
		fmt.Fprintf(w, "  %s\t%s\n", k, rec[k])
	}
	w.Flush()
}
