// Package pipeline orchestrates per-accession retrieval: classify the
// accession, resolve run metadata, pick a provider, download or extract
// the reads, and confirm the output layout. A batch coordinator fans many
// accessions out to the processor under a bounded concurrency limit.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alejandrogzi/gofq/internal/accession"
	"github.com/alejandrogzi/gofq/internal/download"
	"github.com/alejandrogzi/gofq/internal/ena"
	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/layout"
	"github.com/alejandrogzi/gofq/internal/sra"
)

// Probe results reported in probe mode.
const (
	ProbeDownloadable = "DOWNLOADABLE"
	ProbeNotFound     = "NOT_FOUND"
)

// Options configures per-accession processing. The same options are
// shared read-only across all accessions of a batch.
type Options struct {
	Mode        Mode
	Provider    Provider
	Tool        download.Tool
	Outdir      string
	Layout      layout.Layout
	Threads     int
	MaxAttempts int
	RetryDelay  time.Duration
	Overwrite   bool
}

// Outcome is the per-accession result: either the produced and verified
// local files, or a classified failure. Records and Probe are populated
// by the metadata-only and probe modes.
type Outcome struct {
	Accession  string
	Files      []string
	Downloaded int
	Skipped    int
	Records    []ena.Record
	Probe      string
	Err        error
}

// Processor resolves and retrieves one accession at a time. All
// collaborators are injected so tests can point the metadata client at a
// local server and the tools at stubs.
type Processor struct {
	classifier *accession.Classifier
	meta       *ena.Client
	downloader *download.Downloader
	extractor  *sra.Pipeline
	opts       Options
}

// NewProcessor wires a processor from its collaborators.
func NewProcessor(classifier *accession.Classifier, meta *ena.Client, dl *download.Downloader, extractor *sra.Pipeline, opts Options) *Processor {
	return &Processor{
		classifier: classifier,
		meta:       meta,
		downloader: dl,
		extractor:  extractor,
		opts:       opts,
	}
}

// Process runs one accession end to end. A failure at any stage aborts
// only this accession; the returned Outcome always carries the accession
// identifier so batch reporting can name the failing item and stage.
func (p *Processor) Process(ctx context.Context, acc string) Outcome {
	out := Outcome{Accession: acc}

	query, err := p.classifier.Classify(acc)
	if err != nil {
		out.Err = err
		return out
	}

	records, err := p.meta.FetchRuns(ctx, query, p.opts.MaxAttempts, p.opts.RetryDelay)
	if err != nil {
		out.Err = err
		return out
	}
	if len(records) > 1 {
		log.Printf("More than one run found for %s, using the first one", acc)
	}

	switch p.opts.Mode {
	case ModeMetadata:
		out.Records = records
		return out
	case ModeProbe:
		if records[0].Downloadable() {
			out.Probe = ProbeDownloadable
		} else {
			out.Probe = ProbeNotFound
		}
		return out
	}

	record := records[0]
	switch p.opts.Provider {
	case ProviderSRA:
		files, err := p.extractor.Fetch(ctx, record.RunAccession(), sra.Options{
			Outdir:      p.opts.Outdir,
			Threads:     p.opts.Threads,
			MaxAttempts: p.opts.MaxAttempts,
			RetryDelay:  p.opts.RetryDelay,
			Overwrite:   p.opts.Overwrite,
			Layout:      p.opts.Layout,
		})
		if err == nil {
			out.Files = files
			out.Downloaded = len(files)
			return out
		}
		if !errors.IsKind(err, errors.KindToolMissing) {
			out.Err = err
			return out
		}
		// The toolkit is absent; same record, other provider.
		log.Printf("SRA toolkit unavailable for %s, falling back to ENA: %v", acc, err)
		fallthrough
	default:
		p.downloadFromENA(ctx, record, &out)
	}
	return out
}

// downloadFromENA fetches every fastq_ftp/fastq_md5 pair of the record
// through the verified downloader.
func (p *Processor) downloadFromENA(ctx context.Context, record ena.Record, out *Outcome) {
	const op errors.Op = "pipeline.downloadFromENA"
	run := record.RunAccession()
	acc := errors.Accession(run)

	pairs, err := record.FastqPairs()
	if err != nil {
		out.Err = err
		return
	}

	effective, err := p.effectiveLayout(record, len(pairs))
	if err != nil {
		out.Err = err
		return
	}

	for _, pair := range pairs {
		if pair.MD5 == "" {
			// Missing checksum means the provider metadata is broken;
			// a blind transfer cannot be verified.
			out.Err = errors.E(op, errors.KindInput, acc,
				fmt.Sprintf("no MD5 checksum for %s", pair.URL))
			return
		}

		result, err := p.downloader.Download(ctx, pair.URL, download.Options{
			Outdir:      p.opts.Outdir,
			Accession:   run,
			Layout:      effective,
			Tool:        p.opts.Tool,
			MaxAttempts: p.opts.MaxAttempts,
			RetryDelay:  p.opts.RetryDelay,
			Overwrite:   p.opts.Overwrite,
			ExpectedMD5: pair.MD5,
		})
		if err != nil {
			out.Err = err
			return
		}

		out.Files = append(out.Files, result.Path)
		if result.Skipped {
			out.Skipped++
		} else {
			out.Downloaded++
		}
	}

	// Every file reported passed the filename policy and, unless it was
	// skipped, the checksum gate. The names may be admitted variants
	// like ACC.subreads.fastq.gz, so confirm the layout by count rather
	// than by the canonical candidate names.
	want := 0
	switch effective {
	case layout.Paired:
		want = 2
	case layout.Single:
		want = 1
	}
	if want != 0 && len(out.Files) != want {
		out.Err = errors.E(op, errors.KindLayout, acc,
			fmt.Sprintf("%d verified files do not satisfy %s layout", len(out.Files), effective))
	}
}

// effectiveLayout resolves the declared layout against the record. When
// the declared layout is global, the record's library_layout decides, and
// the pair count must agree with it: paired runs carry exactly two remote
// files, single runs exactly one.
func (p *Processor) effectiveLayout(record ena.Record, pairCount int) (layout.Layout, error) {
	const op errors.Op = "pipeline.effectiveLayout"

	if p.opts.Layout != layout.Global {
		return p.opts.Layout, nil
	}

	declared, err := record.Layout()
	if err != nil {
		return layout.Global, err
	}

	want := 0
	switch declared {
	case layout.Paired:
		want = 2
	case layout.Single:
		want = 1
	}
	if want != 0 && pairCount != want {
		return layout.Global, errors.E(op, errors.KindInput,
			errors.Accession(record.RunAccession()),
			fmt.Sprintf("%s layout lists %d remote files, expected %d", declared, pairCount, want))
	}
	return declared, nil
}
