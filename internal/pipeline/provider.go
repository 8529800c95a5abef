package pipeline

import (
	"strings"

	"github.com/alejandrogzi/gofq/internal/errors"
)

// Provider selects the retrieval strategy for read files.
type Provider uint8

const (
	// ProviderENA downloads fastq files directly from ENA mirrors.
	ProviderENA Provider = iota
	// ProviderSRA extracts reads through the SRA toolkit, falling back
	// to ENA when the toolkit is not installed.
	ProviderSRA
)

// String returns the provider name.
func (p Provider) String() string {
	if p == ProviderSRA {
		return "sra"
	}
	return "ena"
}

// ParseProvider maps a flag or config value to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ena":
		return ProviderENA, nil
	case "sra":
		return ProviderSRA, nil
	}
	return ProviderENA, errors.E(errors.Op("pipeline.ParseProvider"), errors.KindConfig,
		"unknown provider: "+s)
}

// Mode is what the processor does with a resolved record.
type Mode uint8

const (
	// ModeDownload retrieves and verifies read files.
	ModeDownload Mode = iota
	// ModeMetadata reports the resolved records without downloading.
	ModeMetadata
	// ModeProbe reports whether read files are available for download.
	ModeProbe
)
