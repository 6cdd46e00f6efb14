package entity

// JobState describes where an import job is in its lifecycle.
type JobState string

const (
	JobStatePending   JobState = "PENDING"
	JobStateSucceeded JobState = "SUCCEEDED"
	JobStateFailed    JobState = "FAILED"

	// JobStateSkipped is used for run records only: the dataset produced no
	// submittable resources, so no job was ever created.
	JobStateSkipped JobState = "SKIPPED"
)

// Terminal reports whether the state ends polling.
func (s JobState) Terminal() bool {
	return s == JobStateSucceeded || s == JobStateFailed
}

// Severity tags a single OperationOutcome issue.
type Severity string

const (
	SeverityFatal       Severity = "fatal"
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// Failure reports whether an issue at this severity fails the whole job.
func (s Severity) Failure() bool {
	return s == SeverityFatal || s == SeverityError
}

// EventKind classifies progress events published during a run.
type EventKind string

const (
	EventKindSkipped   EventKind = "SKIPPED"
	EventKindSubmitted EventKind = "SUBMITTED"
	EventKindSucceeded EventKind = "SUCCEEDED"
	EventKindFailed    EventKind = "FAILED"
)
