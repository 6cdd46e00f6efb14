package entity

import (
	"encoding/json"
	"strings"
)

// OutcomeResourceType is the resourceType value a terminal status
// response must declare.
const OutcomeResourceType = "OperationOutcome"

// OperationOutcome is the diagnostic payload the server returns once an
// import job reaches a terminal state. It is evaluated once per poll and
// discarded.
type OperationOutcome struct {
	ResourceType string  `json:"resourceType"`
	Issue        []Issue `json:"issue"`
}

// Issue is one severity-tagged entry of an OperationOutcome.
type Issue struct {
	Severity    Severity     `json:"severity"`
	Details     IssueDetails `json:"details"`
	Diagnostics string       `json:"diagnostics,omitempty"`
}

// IssueDetails carries the human-readable description of an issue.
type IssueDetails struct {
	Text string `json:"text"`
}

// Failed reports whether any issue carries a failing severity.
func (o OperationOutcome) Failed() bool {
	for _, issue := range o.Issue {
		if issue.Severity.Failure() {
			return true
		}
	}

	return false
}

// ReportMessage unwraps the report embedded in a lone informational
// issue's diagnostics. It returns false when the payload does not carry
// one, in which case callers surface the outcome verbatim.
func (o OperationOutcome) ReportMessage() (string, bool) {
	if len(o.Issue) != 1 || o.Issue[0].Severity != SeverityInformation {
		return "", false
	}

	if !strings.Contains(o.Issue[0].Diagnostics, "reportMsg") {
		return "", false
	}

	var report struct {
		ReportMsg string `json:"reportMsg"`
	}
	if err := json.Unmarshal([]byte(o.Issue[0].Diagnostics), &report); err != nil {
		return "", false
	}

	return report.ReportMsg, true
}

// Verbatim renders the outcome as indented JSON for operator-facing output.
func (o OperationOutcome) Verbatim() string {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return ""
	}

	return string(data)
}
