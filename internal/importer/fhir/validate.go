// Package fhir drives the asynchronous $import workflow against the FHIR
// server: probing candidate resource URLs, submitting jobs, and polling
// them to a terminal state.
package fhir

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Validator probes candidate resource URLs for reachability and
// content-type correctness before they join a job.
type Validator struct {
	client  *http.Client
	timeout time.Duration
}

// NewValidator creates a Validator with a per-probe timeout.
func NewValidator(client *http.Client, timeout time.Duration) *Validator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Validator{client: client, timeout: timeout}
}

// Validate returns the subset of urls that passed their probe, preserving
// input order. No probe failure aborts the batch; rejected URLs are logged
// and excluded.
func (v *Validator) Validate(ctx context.Context, urls []string) []string {
	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if v.probe(ctx, u) {
			valid = append(valid, u)
		}
	}

	return valid
}

func (v *Validator) probe(ctx context.Context, rawURL string) bool {
	pctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pctx, http.MethodHead, rawURL, nil)
	if err != nil {
		slog.WarnContext(ctx, "invalid resource url", "url", rawURL, "error", err)
		return false
	}

	resp, err := v.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "resource url probe failed", "url", rawURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "resource url not accessible", "url", rawURL, "status", resp.StatusCode)
		return false
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "json") {
		slog.WarnContext(ctx, "unexpected content type for resource url", "url", rawURL, "content_type", ct)
		return false
	}

	return true
}
