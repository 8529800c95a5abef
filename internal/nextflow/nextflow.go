// Package nextflow fans a list of accessions out to a cluster scheduler
// by generating a workflow script and config, invoking nextflow, and
// removing the generated artifacts afterwards. Each scheduled job calls
// the single-accession get operation with the same flags, so the core
// pipeline stays the unit of execution.
package nextflow

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/alejandrogzi/gofq/internal/errors"
)

// Generated artifacts, removed after the run.
const (
	scriptFile  = "gofq.nf"
	configFile  = "nextflow.config"
	joblistFile = "joblist.txt"

	nfLog     = ".nextflow.log"
	nfWork    = "work"
	nfHistory = ".nextflow"
)

// Options configures one distributed run.
type Options struct {
	Executor    string // local, slurm, sge
	Queue       string
	Outdir      string
	Threads     int
	MaxAttempts int
	SleepSecs   int
}

// Distribute writes the joblist, script, and config, runs nextflow, and
// cleans up. Only a list of accessions makes sense here; single
// accessions should run locally.
func Distribute(accessions []string, opts Options) error {
	const op errors.Op = "nextflow.Distribute"

	if len(accessions) < 2 {
		return errors.E(op, errors.KindInput, "distributed mode requires a list of accessions")
	}

	if err := os.WriteFile(joblistFile, []byte(strings.Join(accessions, "\n")), 0644); err != nil {
		return errors.E(op, errors.KindIO, "could not write joblist", err)
	}
	if err := writeScript(opts.MaxAttempts, opts.SleepSecs); err != nil {
		return errors.E(op, errors.KindIO, "could not write workflow script", err)
	}
	if err := writeConfig(opts.Executor, opts.Queue, opts.Threads); err != nil {
		return errors.E(op, errors.KindIO, "could not write workflow config", err)
	}

	outdir := opts.Outdir
	if outdir == "" {
		outdir = "DOWNLOADS"
	}

	cmd := exec.Command("nextflow", "run", scriptFile,
		"--joblist", joblistFile,
		"--outdir", outdir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.E(op, errors.KindTransient, "nextflow run failed", err)
	}

	return Cleanup()
}

// Cleanup removes the generated artifacts and nextflow run state.
// Missing files are fine: a failed run may not have produced all of them.
func Cleanup() error {
	const op errors.Op = "nextflow.Cleanup"
	for _, f := range []string{scriptFile, configFile, joblistFile, nfLog} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return errors.E(op, errors.KindIO, err)
		}
	}
	for _, d := range []string{nfWork, nfHistory} {
		if err := os.RemoveAll(d); err != nil {
			return errors.E(op, errors.KindIO, err)
		}
	}
	return nil
}

func writeScript(maxAttempts, sleepSecs int) error {
	script := fmt.Sprintf(`#!/usr/bin/env nextflow

process GET {
    input:
    val(run)
    val(outdir)

    script:
    """
    gofq get ${run} --outdir ${outdir} --max-attempts %d --sleep %d
    find . -name "*.fa*.gz" -print0 | xargs -0 -I {} mv {} "${outdir}"
    """

}

workflow {
    joblist = Channel.fromPath(params.joblist).splitText().map{ it.trim() }
    outdir = params.outdir ?: "DOWNLOADS"

    GET(joblist, outdir)
}
`, maxAttempts, sleepSecs)

	return os.WriteFile(scriptFile, []byte(script), 0644)
}

func writeConfig(executor, queue string, threads int) error {
	config := fmt.Sprintf(`process {
    executor = '%s'
    queue = '%s'
    time = 24.h
    memory = 2.GB
    queueSize = 200
    cpus = %d
}
`, executor, queue, threads)

	return os.WriteFile(configFile, []byte(config), 0644)
}
