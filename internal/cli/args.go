// Package cli implements the gofq commands.
package cli

import (
	"os"
	"strings"

	"github.com/alejandrogzi/gofq/internal/errors"
)

// ParseAccessions expands command-line accession arguments. Each
// argument may be a single accession, a comma-separated list, or a path
// to a .txt file with one accession per line.
func ParseAccessions(args []string) ([]string, error) {
	const op errors.Op = "cli.ParseAccessions"

	var accessions []string
	for _, arg := range args {
		if strings.HasSuffix(arg, ".txt") {
			content, err := os.ReadFile(arg)
			if err != nil {
				return nil, errors.E(op, errors.KindInput, "could not read accession list "+arg, err)
			}
			for _, line := range strings.Split(string(content), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					accessions = append(accessions, line)
				}
			}
			continue
		}

		for _, acc := range strings.Split(arg, ",") {
			if acc = strings.TrimSpace(acc); acc != "" {
				accessions = append(accessions, acc)
			}
		}
	}

	if len(accessions) == 0 {
		return nil, errors.E(op, errors.KindInput, "no accessions given")
	}
	return accessions, nil
}
