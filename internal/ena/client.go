// Package ena fetches sequencing-run metadata from the ENA portal API.
// The portal answers one query-parameter GET with tab-separated text:
// a header row followed by one row per run.
package ena

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alejandrogzi/gofq/internal/accession"
	"github.com/alejandrogzi/gofq/internal/errors"
)

// DefaultBaseURL is the ENA portal search endpoint, fixed to the
// read_run result set in TSV format.
const DefaultBaseURL = "https://www.ebi.ac.uk/ena/portal/api/search?result=read_run&format=tsv"

// Client queries the ENA portal API with retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a portal client. An empty baseURL selects the
// public ENA endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
	}
}

// FetchRuns resolves a classified query to run records. One request is
// issued per attempt; transport errors, non-2xx statuses, and 2xx
// responses that parse to zero records are all retryable, sleeping
// retryDelay between attempts. The loop runs while attempt <= maxAttempts,
// so up to maxAttempts+1 requests are made in total. Exhaustion is fatal
// for the accession. A parse with at least one record returns immediately.
func (c *Client) FetchRuns(ctx context.Context, query accession.Query, maxAttempts int, retryDelay time.Duration) ([]Record, error) {
	const op errors.Op = "ena.FetchRuns"
	acc := errors.Accession(query.Accession)

	var lastErr error
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		records, err := c.fetchOnce(ctx, query)
		if err == nil && len(records) > 0 {
			log.Printf("Retrieved %d run record(s) for %s", len(records), query.Accession)
			return records, nil
		}

		if err == nil {
			// HTTP success, empty result: server-side transient emptiness.
			err = errors.E(op, errors.KindTransient, acc, "query succeeded but returned no records")
		}
		lastErr = err
		log.Printf("Metadata attempt %d for %s failed: %v", attempt+1, query.Accession, err)

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, errors.E(op, errors.KindTransient, acc, ctx.Err())
			case <-time.After(retryDelay):
			}
		}
	}

	return nil, errors.E(op, errors.KindTransient, acc, errors.Attempts(maxAttempts+1),
		"no metadata retrieved", lastErr)
}

// fetchOnce issues a single portal request and parses the TSV body.
// A nil error with an empty slice means the server answered 2xx with no
// data rows.
func (c *Client) fetchOnce(ctx context.Context, query accession.Query) ([]Record, error) {
	const op errors.Op = "ena.fetchOnce"

	// The base URL may already carry fixed parameters (the public
	// endpoint does) or be a bare override from config.
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	reqURL := fmt.Sprintf("%s%squery=%s&fields=all", c.baseURL, sep, url.QueryEscape(`"`+query.Filter+`"`))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.E(op, errors.KindNetwork, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.E(op, errors.KindNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.E(op, errors.KindNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.E(op, errors.KindNetwork,
			fmt.Sprintf("portal returned %s: %s", resp.Status, strings.TrimSpace(string(body))))
	}

	return parseTSV(string(body)), nil
}

// parseTSV turns a header row plus data rows into records keyed by
// header position. Empty values are dropped so absent and empty fields
// are indistinguishable, which is what the rest of the pipeline expects.
func parseTSV(text string) []Record {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil
	}

	header := strings.Split(strings.TrimRight(lines[0], "\r"), "\t")
	var records []Record
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		rec := make(Record)
		for i, value := range strings.Split(line, "\t") {
			if i >= len(header) || value == "" {
				continue
			}
			rec[header[i]] = value
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records
}
