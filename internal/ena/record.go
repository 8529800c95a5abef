package ena

import (
	"strings"

	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/layout"
)

// Record is one sequencing-run row from the portal API. Fields that came
// back empty are omitted from the map, never stored as empty strings.
// A Record is produced fresh per metadata call and owned by a single
// accession's processing.
type Record map[string]string

// Fields the pipeline depends on.
const (
	FieldRunAccession  = "run_accession"
	FieldLibraryLayout = "library_layout"
	FieldFastqFTP      = "fastq_ftp"
	FieldFastqMD5      = "fastq_md5"
)

// FilePair is one remote file and its expected checksum, positionally
// aligned between the fastq_ftp and fastq_md5 fields.
type FilePair struct {
	URL string
	MD5 string
}

// Get returns a field value and whether it was present.
func (r Record) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// RunAccession returns the run_accession field, or "".
func (r Record) RunAccession() string {
	return r[FieldRunAccession]
}

// Layout parses the library_layout field.
func (r Record) Layout() (layout.Layout, error) {
	v, ok := r[FieldLibraryLayout]
	if !ok {
		return layout.Global, errors.E(errors.Op("ena.Record.Layout"), errors.KindInput,
			errors.Accession(r.RunAccession()), "record has no library_layout field")
	}
	return layout.Parse(v)
}

// Downloadable reports whether the record carries any remote read files.
func (r Record) Downloadable() bool {
	return r[FieldFastqFTP] != ""
}

// FastqPairs splits the fastq_ftp and fastq_md5 fields on ';' and zips
// them positionally. Unequal lengths indicate corrupt provider metadata
// and surface as an input error rather than silent truncation.
func (r Record) FastqPairs() ([]FilePair, error) {
	const op errors.Op = "ena.Record.FastqPairs"
	acc := errors.Accession(r.RunAccession())

	ftp, ok := r.Get(FieldFastqFTP)
	if !ok {
		return nil, errors.E(op, errors.KindInput, acc, "record has no fastq_ftp field")
	}
	md5, ok := r.Get(FieldFastqMD5)
	if !ok {
		return nil, errors.E(op, errors.KindInput, acc, "record has no fastq_md5 field")
	}

	urls := strings.Split(ftp, ";")
	sums := strings.Split(md5, ";")
	if len(urls) != len(sums) {
		return nil, errors.E(op, errors.KindInput, acc,
			"fastq_ftp and fastq_md5 have different lengths")
	}

	pairs := make([]FilePair, len(urls))
	for i := range urls {
		pairs[i] = FilePair{URL: urls[i], MD5: sums[i]}
	}
	return pairs, nil
}
