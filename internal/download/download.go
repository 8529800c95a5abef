// Package download retrieves one remote read file to a local path through
// an external transfer tool, verifying the result against an expected MD5
// checksum. Transfers and checksum mismatches are retried; filename policy
// violations are provider metadata problems and fail immediately.
package download

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/layout"
)

// Tool selects the external transfer mechanism.
type Tool string

const (
	ToolAria2c Tool = "aria2c"
	ToolWget   Tool = "wget"
	ToolCurl   Tool = "curl"
)

// ParseTool maps a flag or config value to a Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aria2c":
		return ToolAria2c, nil
	case "wget":
		return ToolWget, nil
	case "curl":
		return ToolCurl, nil
	}
	return "", errors.E(errors.Op("download.ParseTool"), errors.KindConfig, "unknown transfer tool: "+s)
}

// Options configures a verified download.
type Options struct {
	Outdir      string
	Accession   string
	Layout      layout.Layout
	Tool        Tool
	MaxAttempts int
	RetryDelay  time.Duration
	Overwrite   bool
	ExpectedMD5 string
}

// Result is the explicit outcome of a download. Success is never
// inferred from the returned path alone.
type Result struct {
	Path    string
	Skipped bool
}

// mate suffixes accepted unconditionally under paired layout
const (
	mate1Suffix = "_1.fastq.gz"
	mate2Suffix = "_2.fastq.gz"
)

// Downloader runs external transfer tools with retry and verification.
type Downloader struct{}

// New creates a Downloader.
func New() *Downloader {
	return &Downloader{}
}

// Download fetches remote into opts.Outdir. If the destination already
// exists and Overwrite is false the file is trusted as-is and the call
// returns a skipped Result without transferring or re-checking. The
// transfer loop runs while attempt <= MaxAttempts, so up to MaxAttempts+1
// tries are made in total; a non-zero tool exit and a checksum mismatch
// both count as transient failures.
func (d *Downloader) Download(ctx context.Context, remote string, opts Options) (Result, error) {
	const op errors.Op = "download.Download"
	acc := errors.Accession(opts.Accession)

	name := path.Base(remote)
	dest := filepath.Join(opts.Outdir, name)

	if _, err := os.Stat(dest); err == nil {
		if !opts.Overwrite {
			log.Printf("File %s already exists, skipping download", dest)
			return Result{Path: dest, Skipped: true}, nil
		}
		log.Printf("File %s already exists, overwriting", dest)
	}

	if err := checkFilename(name, opts.Accession, opts.Layout); err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(opts.Outdir, 0o755); err != nil {
		return Result{}, errors.E(op, errors.KindIO, acc, err)
	}

	log.Printf("Downloading %s to %s", remote, dest)

	var lastErr error
	for attempt := 0; attempt <= opts.MaxAttempts; attempt++ {
		cmd := buildCommand(ctx, opts.Tool, remote, dest, opts.Outdir)
		runErr := cmd.Run()

		if runErr != nil {
			lastErr = errors.E(op, errors.KindTransient, acc,
				fmt.Sprintf("%s failed for %s", opts.Tool, remote), runErr)
			log.Printf("Transfer attempt %d for %s failed: %v", attempt+1, remote, runErr)
		} else if opts.Overwrite {
			// Forced overwrite skips verification entirely.
			log.Printf("Overwrite requested, skipping MD5 check for %s", remote)
			return Result{Path: dest}, nil
		} else {
			sum, err := MD5Sum(dest)
			if err != nil {
				return Result{}, errors.E(op, errors.KindIO, acc, err)
			}
			if strings.EqualFold(sum, opts.ExpectedMD5) {
				log.Printf("Downloaded %s successfully", remote)
				return Result{Path: dest}, nil
			}
			// A mismatch may be a corrupted partial transfer, so retry.
			lastErr = errors.E(op, errors.KindTransient, acc,
				fmt.Sprintf("MD5 mismatch for %s: expected %s, got %s", remote, opts.ExpectedMD5, sum))
			log.Printf("Checksum attempt %d for %s failed: expected %s, got %s",
				attempt+1, remote, opts.ExpectedMD5, sum)
		}

		if attempt < opts.MaxAttempts {
			select {
			case <-ctx.Done():
				return Result{}, errors.E(op, errors.KindTransient, acc, ctx.Err())
			case <-time.After(opts.RetryDelay):
			}
		}
	}

	return Result{}, errors.E(op, errors.KindTransient, acc,
		errors.Attempts(opts.MaxAttempts+1), "download not verified", lastErr)
}

// checkFilename enforces the expected-name policy before any transfer.
// Mate-suffixed names are accepted unconditionally under paired layout;
// every other name must exactly match one of the accession-prefixed
// patterns. A mismatch signals broken provider metadata, never retried.
func checkFilename(name, accession string, l layout.Layout) error {
	const op errors.Op = "download.checkFilename"

	if l == layout.Paired &&
		(strings.HasSuffix(name, mate1Suffix) || strings.HasSuffix(name, mate2Suffix)) {
		return nil
	}

	for _, suffix := range []string{".fastq.gz", ".fq.gz", ".subreads.fastq.gz", ".subreads.fq.gz"} {
		if name == accession+suffix {
			return nil
		}
	}

	return errors.E(op, errors.KindInput, errors.Accession(accession),
		fmt.Sprintf("unexpected remote filename %s", name))
}

// buildCommand prepares one tool invocation. Each attempt gets a fresh
// process. The argument shapes differ per tool but every tool must write
// dest and exit zero on success.
func buildCommand(ctx context.Context, tool Tool, remote, dest, outdir string) *exec.Cmd {
	url := remote
	if !strings.Contains(url, "://") {
		// fastq_ftp values from the portal come without a scheme.
		url = "http://" + url
	}

	switch tool {
	case ToolWget:
		return exec.CommandContext(ctx, "wget", "-q", "-O", dest, url)
	case ToolCurl:
		return exec.CommandContext(ctx, "curl", "-fsSL", "-o", dest, url)
	default:
		return exec.CommandContext(ctx, "aria2c", "-x4", "-c",
			"-d", outdir, "-o", filepath.Base(dest), url)
	}
}
