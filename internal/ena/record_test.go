package ena

import (
	"testing"

	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/layout"
)

func TestFastqPairs(t *testing.T) {
	rec := Record{
		FieldRunAccession: "SRR000001",
		FieldFastqFTP:     "host/SRR000001_1.fastq.gz;host/SRR000001_2.fastq.gz",
		FieldFastqMD5:     "aaa;bbb",
	}

	pairs, err := rec.FastqPairs()
	if err != nil {
		t.Fatalf("FastqPairs() failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].URL != "host/SRR000001_1.fastq.gz" || pairs[0].MD5 != "aaa" {
		t.Errorf("pair 0 = %+v", pairs[0])
	}
	if pairs[1].MD5 != "bbb" {
		t.Errorf("pair 1 = %+v", pairs[1])
	}
}

func TestFastqPairsLengthMismatch(t *testing.T) {
	// Mismatched lengths mean corrupt metadata: must error, never truncate.
	rec := Record{
		FieldRunAccession: "SRR000001",
		FieldFastqFTP:     "host/a_1.fastq.gz;host/a_2.fastq.gz",
		FieldFastqMD5:     "onlyone",
	}

	_, err := rec.FastqPairs()
	if err == nil {
		t.Fatal("expected error on mismatched field lengths")
	}
	if !errors.IsKind(err, errors.KindInput) {
		t.Errorf("error kind = %v, want input", errors.GetKind(err))
	}
}

func TestFastqPairsMissingFields(t *testing.T) {
	if _, err := (Record{FieldRunAccession: "SRR1"}).FastqPairs(); !errors.IsKind(err, errors.KindInput) {
		t.Errorf("missing fastq_ftp: kind = %v, want input", errors.GetKind(err))
	}
	rec := Record{FieldRunAccession: "SRR1", FieldFastqFTP: "host/x.fastq.gz"}
	if _, err := rec.FastqPairs(); !errors.IsKind(err, errors.KindInput) {
		t.Errorf("missing fastq_md5: kind = %v, want input", errors.GetKind(err))
	}
}

func TestRecordLayout(t *testing.T) {
	rec := Record{FieldRunAccession: "SRR1", FieldLibraryLayout: "PAIRED"}
	l, err := rec.Layout()
	if err != nil {
		t.Fatalf("Layout() failed: %v", err)
	}
	if l != layout.Paired {
		t.Errorf("layout = %v, want paired", l)
	}

	if _, err := (Record{FieldRunAccession: "SRR1"}).Layout(); err == nil {
		t.Error("expected error when library_layout is absent")
	}
}

func TestDownloadable(t *testing.T) {
	if (Record{}).Downloadable() {
		t.Error("record without fastq_ftp should not be downloadable")
	}
	if !(Record{FieldFastqFTP: "host/x.fastq.gz"}).Downloadable() {
		t.Error("record with fastq_ftp should be downloadable")
	}
}
