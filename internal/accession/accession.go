// Package accession classifies raw accession strings into typed ENA
// portal queries. Accessions follow the INSDC naming scheme: studies
// (PRJ*/[EDS]RP*), samples (SAM*/[EDS]RS*), experiments ([EDS]RX*) and
// runs ([EDS]RR*).
package accession

import (
	"fmt"
	"regexp"

	"github.com/alejandrogzi/gofq/internal/errors"
)

// Category is the kind of entity an accession refers to.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryStudy
	CategorySample
	CategoryExperiment
	CategoryRun
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStudy:
		return "study"
	case CategorySample:
		return "sample"
	case CategoryExperiment:
		return "experiment"
	case CategoryRun:
		return "run"
	default:
		return "unknown"
	}
}

// Query is a provider filter string derived from a classified accession.
// It is immutable once built.
type Query struct {
	Accession string
	Category  Category
	Filter    string
}

// Classifier matches accessions against the four INSDC patterns.
// Construct one with NewClassifier at process start and pass it down;
// the compiled patterns are read-only after construction.
type Classifier struct {
	study      *regexp.Regexp
	sample     *regexp.Regexp
	experiment *regexp.Regexp
	run        *regexp.Regexp
}

// NewClassifier compiles the four accession patterns.
func NewClassifier() *Classifier {
	return &Classifier{
		study:      regexp.MustCompile(`^PRJ[EDN][A-Z][0-9]+$|^[EDS]RP[0-9]{6,}$`),
		sample:     regexp.MustCompile(`^SAM[EDN][A-Z]?[0-9]+$|^[EDS]RS[0-9]{6,}$`),
		experiment: regexp.MustCompile(`^[EDS]RX[0-9]{6,}$`),
		run:        regexp.MustCompile(`^[EDS]RR[0-9]{6,}$`),
	}
}

// Classify maps a raw accession to a portal query. The patterns are
// mutually exclusive, so the first match wins. Unclassifiable input is
// a fatal input error, never retried.
func (c *Classifier) Classify(acc string) (Query, error) {
	const op errors.Op = "accession.Classify"

	switch {
	case c.study.MatchString(acc):
		return Query{
			Accession: acc,
			Category:  CategoryStudy,
			Filter:    fmt.Sprintf("(study_accession=%s OR secondary_study_accession=%s)", acc, acc),
		}, nil
	case c.sample.MatchString(acc):
		return Query{
			Accession: acc,
			Category:  CategorySample,
			Filter:    fmt.Sprintf("(sample_accession=%s OR secondary_sample_accession=%s)", acc, acc),
		}, nil
	case c.experiment.MatchString(acc):
		return Query{
			Accession: acc,
			Category:  CategoryExperiment,
			Filter:    fmt.Sprintf("experiment_accession=%s", acc),
		}, nil
	case c.run.MatchString(acc):
		return Query{
			Accession: acc,
			Category:  CategoryRun,
			Filter:    fmt.Sprintf("run_accession=%s", acc),
		}, nil
	default:
		return Query{}, errors.E(op, errors.KindInput, errors.Accession(acc),
			"not a study, sample, experiment, or run accession")
	}
}
