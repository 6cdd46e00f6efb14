package fhir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgerror"
)

// Poller repeatedly queries a job's status handle until the server reports
// a terminal outcome.
type Poller struct {
	client   *http.Client
	interval time.Duration
	maxWait  time.Duration
}

// NewPoller creates a Poller. interval is the wait between polls; maxWait
// bounds the whole poll, with 0 meaning no budget.
func NewPoller(client *http.Client, interval, maxWait time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &Poller{client: client, interval: interval, maxWait: maxWait}
}

// Poll drives job to a terminal state and returns the server's diagnostic
// outcome. The job ends Succeeded only when no issue carries a failing
// severity; otherwise a job outcome error holds the verbatim payload.
// Protocol surprises (content type, status code, payload shape) and an
// expired poll budget end the job Failed with a corresponding error.
func (p *Poller) Poll(ctx context.Context, job *entity.ImportJob) (*entity.OperationOutcome, error) {
	if p.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.maxWait)
		defer cancel()
	}

	for {
		outcome, done, err := p.once(ctx, job)
		if err != nil {
			job.State = entity.JobStateFailed
			return nil, err
		}

		if done {
			if outcome.Failed() {
				job.State = entity.JobStateFailed
				return outcome, pkgerror.NewJobOutcome(fmt.Sprintf(
					"import failed for %s:\n%s", job.DatasetName, outcome.Verbatim(),
				))
			}

			job.State = entity.JobStateSucceeded
			return outcome, nil
		}

		if err := p.wait(ctx); err != nil {
			job.State = entity.JobStateFailed
			return nil, err
		}
	}
}

// once performs a single status request. done is false while the server
// still reports the job in progress.
func (p *Poller) once(ctx context.Context, job *entity.ImportJob) (*entity.OperationOutcome, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.StatusURL, nil)
	if err != nil {
		return nil, false, pkgerror.NewInternal(err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, false, pkgerror.NewTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, pkgerror.NewTransport(err)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "json") {
		return nil, false, pkgerror.NewPollProtocol(fmt.Sprintf(
			"unexpected content type %q while polling %s: %s", ct, job.DatasetName, snippet(body),
		), pkgerror.CodeUnexpectedContentType)
	}

	if resp.StatusCode == http.StatusAccepted {
		slog.InfoContext(ctx, "import in progress", "dataset", job.DatasetName, "status", resp.StatusCode)
		return nil, false, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, pkgerror.NewPollProtocol(fmt.Sprintf(
			"unexpected status %d while polling %s: %s", resp.StatusCode, job.DatasetName, snippet(body),
		), pkgerror.CodeUnexpectedStatus)
	}

	var outcome entity.OperationOutcome
	if err := json.Unmarshal(body, &outcome); err != nil || outcome.ResourceType != entity.OutcomeResourceType {
		return nil, false, pkgerror.NewPollProtocol(fmt.Sprintf(
			"unexpected terminal payload for %s: %s", job.DatasetName, snippet(body),
		), pkgerror.CodeUnexpectedPayload)
	}

	return &outcome, true, nil
}

// wait blocks for one poll interval, honoring cancellation and the poll budget.
func (p *Poller) wait(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return pkgerror.NewPollTimeout(ctx.Err())
		}
		return pkgerror.NewInternal(ctx.Err())
	}
}

func snippet(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
