package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRoot mirrors the real root command's persistent flags so the
// merge of inherited shorthands into each subcommand is exercised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "gofq"}
	root.PersistentFlags().BoolP("verbose", "v", false, "")
	root.PersistentFlags().BoolP("quiet", "q", false, "")
	root.AddCommand(
		NewGetCmd(),
		NewMetadataCmd(),
		NewProbeCmd(),
		NewNextflowCmd(),
		NewServerCmd(),
		NewConfigCmd(),
	)
	return root
}

func TestSubcommandShorthandsDoNotCollideWithRoot(t *testing.T) {
	// pflag panics when a subcommand redefines an inherited shorthand,
	// so rendering help for every subcommand must complete cleanly.
	for _, sub := range []string{"get", "metadata", "probe", "nextflow", "server", "config"} {
		t.Run(sub, func(t *testing.T) {
			root := newTestRoot()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs([]string{sub, "--help"})
			if err := root.Execute(); err != nil {
				t.Fatalf("%s --help failed: %v", sub, err)
			}
		})
	}
}

func TestNextflowQueueFlag(t *testing.T) {
	cmd := NewNextflowCmd()
	if cmd.Flags().Lookup("queue") == nil {
		t.Fatal("nextflow command should define --queue")
	}
	if sh := cmd.Flags().Lookup("queue").Shorthand; sh != "" {
		t.Errorf("queue shorthand = %q, want none", sh)
	}

	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.ParseFlags([]string{"--queue", "long", "--executor", "slurm"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
}
