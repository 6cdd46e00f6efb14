package fhir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgerror"
)

const (
	inputFormatNDJSON   = "application/fhir+ndjson"
	contentTypeFHIRJSON = "application/fhir+json"

	// Header spelling matches the server's contract.
	headerExistenceCheck = "X-Upsert-Extistence-Check"
)

// Submitter builds and sends $import requests.
type Submitter struct {
	client    *http.Client
	serverURL string
	source    string
}

// NewSubmitter creates a Submitter targeting serverURL. The source is the
// bucket base the request declares as inputSource.
func NewSubmitter(client *http.Client, serverURL, source string) *Submitter {
	return &Submitter{
		client:    client,
		serverURL: strings.TrimSuffix(serverURL, "/"),
		source:    strings.TrimSuffix(source, "/"),
	}
}

// parameters is the FHIR Parameters resource carried by the request body.
type parameters struct {
	ResourceType string      `json:"resourceType"`
	Parameter    []parameter `json:"parameter"`
}

type parameter struct {
	Name        string      `json:"name"`
	ValueString string      `json:"valueString,omitempty"`
	ValueURI    string      `json:"valueUri,omitempty"`
	ValueCode   string      `json:"valueCode,omitempty"`
	Part        []parameter `json:"part,omitempty"`
}

// Submit sends an asynchronous $import request for the dataset's candidate
// URLs. URLs without the data-file suffix are dropped first; if nothing
// remains, no request is sent and both return values are nil. A response
// without a job-status location is a submission error that halts the run.
func (s *Submitter) Submit(ctx context.Context, datasetName string, candidateURLs []string) (*entity.ImportJob, error) {
	urls := make([]string, 0, len(candidateURLs))
	for _, u := range candidateURLs {
		if strings.HasSuffix(u, entity.DataFileSuffix) {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		slog.InfoContext(ctx, "no resources to import", "dataset", datasetName)
		return nil, nil
	}

	payload, err := json.Marshal(s.buildParameters(urls))
	if err != nil {
		return nil, pkgerror.NewInternal(err)
	}

	endpoint := s.serverURL + "/$import"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerror.NewInternal(err)
	}
	req.Header.Set("Content-Type", contentTypeFHIRJSON)
	req.Header.Set("Prefer", "respond-async")
	req.Header.Set(headerExistenceCheck, "disabled")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pkgerror.NewTransport(err)
	}
	defer resp.Body.Close()

	statusURL := resp.Header.Get("Content-Location")
	if statusURL == "" {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, pkgerror.NewSubmission(fmt.Sprintf(
			"import submission for %s returned no status location: url %s, status %d: %s",
			datasetName, endpoint, resp.StatusCode, string(body),
		))
	}

	slog.InfoContext(ctx, "import job submitted", "dataset", datasetName, "status_url", statusURL, "resources", len(urls))

	return &entity.ImportJob{
		DatasetName: datasetName,
		StatusURL:   statusURL,
		State:       entity.JobStatePending,
	}, nil
}

func (s *Submitter) buildParameters(urls []string) parameters {
	params := parameters{
		ResourceType: "Parameters",
		Parameter: []parameter{
			{Name: "inputFormat", ValueString: inputFormatNDJSON},
			{Name: "inputSource", ValueURI: s.source + "/"},
			{Name: "storageDetail", Part: []parameter{
				{Name: "type", ValueCode: "https"},
			}},
		},
	}

	for _, u := range urls {
		params.Parameter = append(params.Parameter, parameter{
			Name: "input",
			Part: []parameter{
				{Name: "type", ValueCode: resourceTypeOf(u)},
				{Name: "url", ValueURI: u},
			},
		})
	}

	return params
}

// resourceTypeOf derives the declared resource type from the filename stem,
// e.g. ".../A-META/Patient.ndjson" declares type "Patient".
func resourceTypeOf(rawURL string) string {
	return strings.TrimSuffix(path.Base(rawURL), entity.DataFileSuffix)
}
