package ena

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrogzi/gofq/internal/accession"
	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/testutil"
)

func testQuery(t *testing.T, acc string) accession.Query {
	t.Helper()
	query, err := accession.NewClassifier().Classify(acc)
	if err != nil {
		t.Fatalf("classify %s: %v", acc, err)
	}
	return query
}

func TestFetchRunsSuccess(t *testing.T) {
	body := testutil.SingleRunTSV("SRR000001",
		"ftp.sra.ebi.ac.uk/vol1/fastq/SRR000/SRR000001/SRR000001.fastq.gz",
		"d41d8cd98f00b204e9800998ecf8427e")

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL + "?result=read_run&format=tsv")
	records, err := client.FetchRuns(context.Background(), testQuery(t, "SRR000001"), 3, time.Millisecond)
	testutil.RequireNoError(t, err, "FetchRuns")

	testutil.AssertEqual(t, len(records), 1, "record count")
	testutil.AssertEqual(t, atomic.LoadInt32(&requests), 1, "success must not retry")
	testutil.AssertEqual(t, records[0].RunAccession(), "SRR000001", "run accession")
	testutil.AssertEqual(t, records[0][FieldLibraryLayout], "SINGLE", "library layout")
}

func TestFetchRunsRetriesEmptyBody(t *testing.T) {
	// Three empty answers, then a valid record: the client must sleep and
	// retry exactly three times before succeeding on the fourth request.
	body := testutil.SingleRunTSV("ERR000002",
		"ftp.sra.ebi.ac.uk/vol1/fastq/ERR000/ERR000002/ERR000002.fastq.gz",
		"d41d8cd98f00b204e9800998ecf8427e")

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) <= 3 {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL + "?result=read_run&format=tsv")
	records, err := client.FetchRuns(context.Background(), testQuery(t, "ERR000002"), 5, time.Millisecond)
	testutil.RequireNoError(t, err, "FetchRuns after empty responses")

	testutil.AssertEqual(t, len(records), 1, "record count")
	testutil.AssertEqual(t, atomic.LoadInt32(&requests), 4, "request count")
}

func TestFetchRunsHeaderOnlyIsRetryable(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte("run_accession\tfastq_ftp\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL + "?x=1")
	_, err := client.FetchRuns(context.Background(), testQuery(t, "SRR000001"), 2, time.Millisecond)
	if err == nil {
		t.Fatal("expected failure on header-only responses")
	}
	testutil.AssertEqual(t, errors.GetKind(err), errors.KindTransient, "error kind")
	testutil.AssertEqual(t, atomic.LoadInt32(&requests), 3, "attempt count (inclusive bound)")
	testutil.AssertEqual(t, errors.GetAttempts(err), 3, "attempts recorded in error")
}

func TestFetchRunsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "portal down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL + "?x=1")
	_, err := client.FetchRuns(context.Background(), testQuery(t, "SRR000001"), 1, time.Millisecond)
	if err == nil {
		t.Fatal("expected failure on 500 responses")
	}
	testutil.AssertEqual(t, errors.GetKind(err), errors.KindTransient, "error kind")
}

func TestFetchRunsContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL + "?x=1")
	_, err := client.FetchRuns(ctx, testQuery(t, "SRR000001"), 5, time.Hour)
	if err == nil {
		t.Fatal("expected failure with cancelled context")
	}
}

func TestParseTSV(t *testing.T) {
	text := "run_accession\tlibrary_layout\tfastq_ftp\tfastq_md5\n" +
		"SRR1\tPAIRED\thost/a_1.fastq.gz;host/a_2.fastq.gz\taa;bb\n" +
		"SRR2\t\thost/b.fastq.gz\tcc\n" +
		"\n"

	records := parseTSV(text)
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(records))
	}

	// Empty values must be omitted, not stored as "".
	if _, ok := records[1][FieldLibraryLayout]; ok {
		t.Error("empty library_layout should be absent from the record")
	}
	testutil.AssertEqual(t, records[0][FieldFastqMD5], "aa;bb", "md5 field")
}

func TestParseTSVEmpty(t *testing.T) {
	if got := parseTSV(""); got != nil {
		t.Errorf("parseTSV(empty) = %v, want nil", got)
	}
	if got := parseTSV("header_only\n"); got != nil {
		t.Errorf("parseTSV(header only) = %v, want nil", got)
	}
}

func TestFetchRunsBareBaseURL(t *testing.T) {
	// A portal override from config may carry no query string of its
	// own; the client must start the parameter list itself.
	body := testutil.SingleRunTSV("SRR000001",
		"ftp.sra.ebi.ac.uk/vol1/fastq/SRR000/SRR000001/SRR000001.fastq.gz",
		"d41d8cd98f00b204e9800998ecf8427e")

	var gotQuery, gotFields string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotFields = r.URL.Query().Get("fields")
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	records, err := client.FetchRuns(context.Background(), testQuery(t, "SRR000001"), 0, time.Millisecond)
	testutil.RequireNoError(t, err, "FetchRuns against a bare base URL")

	testutil.AssertEqual(t, len(records), 1, "record count")
	testutil.AssertEqual(t, gotQuery, `"run_accession=SRR000001"`, "query parameter")
	testutil.AssertEqual(t, gotFields, "all", "fields parameter")
}
