package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alejandrogzi/gofq/internal/pipeline"
	"github.com/alejandrogzi/gofq/internal/testutil"
)

// newTestServer wires a server against a stub metadata portal serving
// the given TSV body.
func newTestServer(t *testing.T, body string) *Server {
	t.Helper()
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(portal.Close)

	return NewServer(&Config{
		Host:        "localhost",
		Port:        0,
		ENABaseURL:  portal.URL,
		MaxAttempts: 1,
		RetryDelay:  time.Millisecond,
	})
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, body
}

func TestGetRuns(t *testing.T) {
	s := newTestServer(t,
		testutil.SingleRunTSV("SRR000001", "host/SRR000001.fastq.gz", "abc"))

	rec, body := get(t, s, "/api/v1/runs/SRR000001")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
	testutil.AssertEqual(t, rec.Header().Get("Content-Type"), "application/json", "content type")
	testutil.AssertEqual(t, body["accession"].(string), "SRR000001", "accession echoed")
	testutil.AssertEqual(t, body["count"].(float64), 1, "record count")
}

func TestGetRunsInvalidAccession(t *testing.T) {
	s := newTestServer(t, "")

	rec, body := get(t, s, "/api/v1/runs/not-an-accession")
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "classification failures map to 400")
	testutil.AssertEqual(t, body["error"].(bool), true, "error flag")
}

func TestGetRunsPortalExhausted(t *testing.T) {
	// The portal keeps answering empty, so resolution exhausts its
	// retry budget and the failure surfaces as a gateway error.
	s := newTestServer(t, "")

	rec, _ := get(t, s, "/api/v1/runs/SRR000001")
	testutil.AssertEqual(t, rec.Code, http.StatusBadGateway, "transient exhaustion maps to 502")
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "downloadable",
			body: testutil.SingleRunTSV("SRR000001", "host/SRR000001.fastq.gz", "abc"),
			want: pipeline.ProbeDownloadable,
		},
		{
			name: "no remote files",
			body: testutil.RunTSV([4]string{"SRR000001", "SINGLE", "", ""}),
			want: pipeline.ProbeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.body)
			rec, body := get(t, s, "/api/v1/probe/SRR000001")
			testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
			testutil.AssertEqual(t, body["status"].(string), tt.want, "probe verdict")
		})
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	rec, body := get(t, s, "/api/v1/health")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
	testutil.AssertEqual(t, body["status"].(string), "ok", "health payload")
}

func TestRootListsEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	rec, body := get(t, s, "/")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
	if _, ok := body["endpoints"]; !ok {
		t.Fatal("root response should list endpoints")
	}
}
