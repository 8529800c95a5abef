package cli

import (
	"github.com/spf13/cobra"

	"github.com/alejandrogzi/gofq/internal/nextflow"
)

var (
	nextflowExecutor string
	nextflowQueue    string
)

// NewNextflowCmd creates the nextflow command
func NewNextflowCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "nextflow ACCESSIONS",
		Short: "Distribute downloads across a cluster with Nextflow",
		Long: `Generate a Nextflow workflow that runs one gofq get job per
accession and submit it through the chosen executor. The generated
script, config, joblist, and Nextflow run state are removed afterwards.

Examples:
  gofq nextflow accessions.txt --executor slurm --queue long
  gofq nextflow SRR000001,ERR000002 --executor local`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNextflow(cmd, args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&nextflowExecutor, "executor", "e", "", "Nextflow executor (local|slurm|sge)")
	// no shorthand: -q belongs to the root command's --quiet
	cmd.Flags().StringVar(&nextflowQueue, "queue", "", "HPC queue (short|long|null)")
	return cmd
}

func runNextflow(cmd *cobra.Command, args []string, flags *runFlags) error {
	accessions, err := ParseAccessions(args)
	if err != nil {
		return err
	}

	cfg, err := flags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	executor := cfg.Nextflow.Executor
	if cmd.Flags().Changed("executor") {
		executor = nextflowExecutor
	}
	queue := cfg.Nextflow.Queue
	if cmd.Flags().Changed("queue") {
		queue = nextflowQueue
	}

	return nextflow.Distribute(accessions, nextflow.Options{
		Executor:    executor,
		Queue:       queue,
		Outdir:      cfg.OutputDir,
		Threads:     cfg.Threads,
		MaxAttempts: cfg.MaxAttempts,
		SleepSecs:   cfg.SleepSeconds,
	})
}
