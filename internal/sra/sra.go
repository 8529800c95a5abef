// Package sra obtains reads through the SRA toolkit as an alternative to
// direct ENA downloads: prefetch writes a container file, fasterq-dump
// splits it into raw fastq files, and pigz compresses them in place.
// Missing tools are reported before any work starts so the caller can
// fall back to the ENA provider without partial side effects.
package sra

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/layout"
)

// External toolchain.
const (
	ToolPrefetch    = "prefetch"
	ToolFasterqDump = "fasterq-dump"
	ToolPigz        = "pigz"
)

// prefetch exits with this code when the accession does not exist.
const notFoundExitCode = 3

// Options configures one pipeline run.
type Options struct {
	Outdir      string
	Threads     int
	MaxAttempts int
	RetryDelay  time.Duration
	Overwrite   bool
	Layout      layout.Layout
}

// Pipeline drives the three-stage fetch/extract/compress toolchain.
type Pipeline struct{}

// New creates a Pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// EnsureTools verifies the whole toolchain is on PATH. The first missing
// tool is returned as a tool-missing error, which callers treat as a
// provider-switch signal rather than a failure.
func (p *Pipeline) EnsureTools() error {
	const op errors.Op = "sra.EnsureTools"
	for _, tool := range []string{ToolPrefetch, ToolFasterqDump, ToolPigz} {
		if _, err := exec.LookPath(tool); err != nil {
			return errors.E(op, errors.KindToolMissing, tool+" not found on PATH", err)
		}
	}
	return nil
}

// Fetch retrieves the reads for one run accession and returns the
// compressed output paths. When the layout is already satisfied and
// overwrite is off, existing outputs are returned untouched.
func (p *Pipeline) Fetch(ctx context.Context, accession string, opts Options) ([]string, error) {
	const op errors.Op = "sra.Fetch"
	acc := errors.Accession(accession)

	if err := p.EnsureTools(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.Outdir, 0o755); err != nil {
		return nil, errors.E(op, errors.KindIO, acc, err)
	}

	candidates := layout.Candidates(opts.Outdir, accession)
	if !opts.Overwrite && layout.Satisfied(opts.Layout, opts.Outdir, accession) {
		log.Printf("Skipping %s: fastq files already present", accession)
		return layout.ExistingPaths(candidates), nil
	}

	if opts.Overwrite {
		if err := layout.RemoveExisting(candidates); err != nil {
			return nil, err
		}
	}

	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	container := accession + ".sra"
	err := p.runWithRetry(ctx, func() *exec.Cmd {
		cmd := exec.CommandContext(ctx, ToolPrefetch, accession,
			"--max-size", "10T", "-o", container)
		cmd.Dir = opts.Outdir
		return cmd
	}, opts, ToolPrefetch, accession)
	if err != nil {
		return nil, err
	}

	err = p.runWithRetry(ctx, func() *exec.Cmd {
		cmd := exec.CommandContext(ctx, ToolFasterqDump, accession,
			"--split-3", "--mem", "1G", "--threads", strconv.Itoa(threads))
		cmd.Dir = opts.Outdir
		return cmd
	}, opts, ToolFasterqDump, accession)
	if err != nil {
		return nil, err
	}

	produced, err := p.compress(ctx, accession, opts.Outdir, threads)
	if err != nil {
		return nil, err
	}

	if err := p.cleanupContainer(opts.Outdir, container); err != nil {
		return nil, err
	}

	if !layout.Satisfied(opts.Layout, opts.Outdir, accession) {
		return nil, errors.E(op, errors.KindLayout, acc,
			fmt.Sprintf("extraction did not satisfy %s layout", opts.Layout))
	}

	if len(produced) == 0 {
		produced = layout.ExistingPaths(candidates)
	}
	return produced, nil
}

// compress runs pigz over every raw fastq the extraction produced.
// Compression is a single attempt per file: the tool is deterministic, so
// a failure is fatal. Files already compressed are not rolled back when a
// later one fails; partial output is left for inspection.
func (p *Pipeline) compress(ctx context.Context, accession, outdir string, threads int) ([]string, error) {
	const op errors.Op = "sra.compress"
	cpus := strconv.Itoa(threads)

	var produced []string
	for _, raw := range layout.RawCandidates(outdir, accession) {
		if _, err := os.Stat(raw); err != nil {
			continue
		}

		cmd := exec.CommandContext(ctx, ToolPigz, "--force", "-p", cpus, "-n", filepath.Base(raw))
		cmd.Dir = outdir
		if err := cmd.Run(); err != nil {
			return nil, errors.E(op, errors.KindTransient, errors.Accession(accession),
				fmt.Sprintf("%s failed for %s", ToolPigz, raw), err)
		}
		produced = append(produced, raw+".gz")
	}

	if len(produced) == 0 {
		return nil, errors.E(op, errors.KindLayout, errors.Accession(accession),
			"extraction produced no fastq files")
	}
	return produced, nil
}

func (p *Pipeline) cleanupContainer(outdir, container string) error {
	path := filepath.Join(outdir, container)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.E(errors.Op("sra.cleanupContainer"), errors.KindIO, err)
	}
	return nil
}

// runWithRetry executes a tool until it exits zero, retrying transient
// failures with the caller-supplied budget. The loop runs while
// attempt <= MaxAttempts, matching the downloader's inclusive bound.
// The not-found exit code from prefetch fails immediately: retrying
// cannot make an absent accession appear.
func (p *Pipeline) runWithRetry(ctx context.Context, builder func() *exec.Cmd, opts Options, tool, accession string) error {
	const op errors.Op = "sra.runWithRetry"
	acc := errors.Accession(accession)

	var lastErr error
	for attempt := 0; attempt <= opts.MaxAttempts; attempt++ {
		cmd := builder()
		err := cmd.Run()
		if err == nil {
			return nil
		}

		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == notFoundExitCode {
			return errors.E(op, errors.KindNotFound, acc,
				fmt.Sprintf("%s reported accession not found", tool))
		}

		lastErr = err
		log.Printf("%s attempt %d for %s failed: %v", tool, attempt+1, accession, err)

		if attempt < opts.MaxAttempts {
			select {
			case <-ctx.Done():
				return errors.E(op, errors.KindTransient, acc, ctx.Err())
			case <-time.After(opts.RetryDelay):
			}
		}
	}

	return errors.E(op, errors.KindTransient, acc, errors.Attempts(opts.MaxAttempts+1),
		tool+" did not succeed", lastErr)
}
