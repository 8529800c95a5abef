package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture data for tests

// RunTSV builds a portal-style TSV body: a header row followed by one
// data row per record, with columns run_accession, library_layout,
// fastq_ftp, fastq_md5.
func RunTSV(rows ...[4]string) string {
	var b strings.Builder
	b.WriteString("run_accession\tlibrary_layout\tfastq_ftp\tfastq_md5\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", r[0], r[1], r[2], r[3])
	}
	return b.String()
}

// SingleRunTSV returns a TSV body with one SINGLE-layout run pointing at
// the given remote file and checksum.
func SingleRunTSV(accession, remote, md5 string) string {
	return RunTSV([4]string{accession, "SINGLE", remote, md5})
}

// PairedRunTSV returns a TSV body with one PAIRED-layout run carrying
// two remote files and checksums.
func PairedRunTSV(accession, remote1, md51, remote2, md52 string) string {
	return RunTSV([4]string{
		accession, "PAIRED",
		remote1 + ";" + remote2,
		md51 + ";" + md52,
	})
}

// StubTool writes an executable shell script named tool into dir.
// PrependPath makes it visible to exec.LookPath.
func StubTool(t *testing.T, dir, tool, script string) string {
	t.Helper()
	path := filepath.Join(dir, tool)
	content := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("failed to write stub tool %s: %v", tool, err)
	}
	return path
}

// PrependPath puts dir at the front of PATH for the duration of the test.
func PrependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// EmptyPath points PATH at an empty directory so no external tools
// resolve.
func EmptyPath(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PATH", dir)
}
