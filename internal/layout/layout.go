// Package layout validates output file sets against the declared
// single/paired read layout of a sequencing run. Canonical file names are
// deterministic functions of the run accession, so the presence of those
// files is the only "already downloaded" state the pipeline keeps.
package layout

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrogzi/gofq/internal/errors"
)

// Layout is the declared expectation for output file count.
type Layout uint8

const (
	// Global accepts either a single file or a mate pair.
	Global Layout = iota
	// Single requires exactly the one canonical single-end file.
	Single
	// Paired requires both canonical mate files.
	Paired
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case Single:
		return "single"
	case Paired:
		return "paired"
	default:
		return "global"
	}
}

// Parse maps a library_layout field value or CLI flag to a Layout.
func Parse(s string) (Layout, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SINGLE":
		return Single, nil
	case "PAIRED":
		return Paired, nil
	case "", "GLOBAL", "AUTO":
		return Global, nil
	}
	return Global, errors.E(errors.Op("layout.Parse"), errors.KindInput, "unknown layout: "+s)
}

// Candidates returns the canonical compressed output paths for a run:
// single, mate 1, mate 2.
func Candidates(outdir, accession string) [3]string {
	return [3]string{
		filepath.Join(outdir, accession+".fastq.gz"),
		filepath.Join(outdir, accession+"_1.fastq.gz"),
		filepath.Join(outdir, accession+"_2.fastq.gz"),
	}
}

// RawCandidates returns the canonical uncompressed paths produced by
// extraction, in the same order as Candidates.
func RawCandidates(outdir, accession string) [3]string {
	return [3]string{
		filepath.Join(outdir, accession+".fastq"),
		filepath.Join(outdir, accession+"_1.fastq"),
		filepath.Join(outdir, accession+"_2.fastq"),
	}
}

// Satisfied reports whether the files present in outdir meet the layout.
// It is used both to decide whether a prior download can be skipped and
// to confirm a fresh retrieval before reporting success.
func Satisfied(l Layout, outdir, accession string) bool {
	c := Candidates(outdir, accession)
	hasSingle := exists(c[0])
	hasPaired := exists(c[1]) && exists(c[2])

	switch l {
	case Single:
		return hasSingle
	case Paired:
		return hasPaired
	default:
		return hasSingle || hasPaired
	}
}

// ExistingPaths returns the candidate paths that exist on disk.
func ExistingPaths(paths [3]string) []string {
	var out []string
	for _, p := range paths {
		if exists(p) {
			out = append(out, p)
		}
	}
	return out
}

// RemoveExisting deletes any candidate files already on disk.
// Used when the caller forces a fresh retrieval.
func RemoveExisting(paths [3]string) error {
	const op errors.Op = "layout.RemoveExisting"
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.E(op, errors.KindIO, err)
		}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
