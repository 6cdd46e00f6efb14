package pkgerror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the requested record could not be found.
	ErrNotFound = errors.New("record not found")
)

// Type classifies errors into the high-level buckets of the import workflow.
type Type int

const (
	TypeInternal     Type = iota // Unclassified internal failures.
	TypeTransport                // Network or HTTP-layer failures after transport retries.
	TypeSubmission               // The server accepted the request shape but returned no job handle.
	TypePollProtocol             // Unexpected content type, status code, or payload while polling.
	TypeJobOutcome               // The job completed but reported at least one failing issue.
	TypeBusiness                 // Domain rule violations (e.g. duplicate run records).
)

func (t Type) String() string {
	switch t {
	case TypeTransport:
		return "ERROR_TYPE_TRANSPORT"
	case TypeSubmission:
		return "ERROR_TYPE_SUBMISSION"
	case TypePollProtocol:
		return "ERROR_TYPE_POLL_PROTOCOL"
	case TypeJobOutcome:
		return "ERROR_TYPE_JOB_OUTCOME"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeInternal:
		return "ERROR_TYPE_INTERNAL"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to exit codes.
type Code int

const (
	CodeInternal              Code = iota // Internal or unspecified error.
	CodeTransport                         // Request never yielded a usable response.
	CodeMissingStatusLocation             // Submission response lacked the job-status location header.
	CodeUnexpectedContentType             // Poll response content type was not structured data.
	CodeUnexpectedStatus                  // Poll response carried an unexpected status code.
	CodeUnexpectedPayload                 // Terminal poll response was not an OperationOutcome.
	CodeErrorIssues                       // OperationOutcome contained failing issues.
	CodePollTimeout                       // The poll budget expired before a terminal state.
	CodeNotFound                          // Record not found.
	CodeConflict                          // Duplicate record.
)

func (c Code) String() string {
	switch c {
	case CodeTransport:
		return "ERROR_CODE_TRANSPORT"
	case CodeMissingStatusLocation:
		return "ERROR_CODE_MISSING_STATUS_LOCATION"
	case CodeUnexpectedContentType:
		return "ERROR_CODE_UNEXPECTED_CONTENT_TYPE"
	case CodeUnexpectedStatus:
		return "ERROR_CODE_UNEXPECTED_STATUS"
	case CodeUnexpectedPayload:
		return "ERROR_CODE_UNEXPECTED_PAYLOAD"
	case CodeErrorIssues:
		return "ERROR_CODE_ERROR_ISSUES"
	case CodePollTimeout:
		return "ERROR_CODE_POLL_TIMEOUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeInternal:
		return "ERROR_CODE_INTERNAL"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is a structured error used across the application.
//
// It can wrap an underlying error while also carrying an operator-facing
// message, a high-level type, and a stable error code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	return "Unknown error"
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the operator-facing error message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// ExitCode maps the error code to the process exit code the command layer
// should terminate with.
func (e *Error) ExitCode() int {
	switch e.code {
	case CodeTransport:
		return 10
	case CodeMissingStatusLocation:
		return 11
	case CodeUnexpectedContentType, CodeUnexpectedStatus, CodeUnexpectedPayload:
		return 12
	case CodePollTimeout:
		return 13
	case CodeErrorIssues:
		return 14
	default:
		return 1
	}
}

// ExitCode resolves the exit code for any error: structured errors map
// through their code, everything else is a generic failure. A nil error
// maps to zero.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr.ExitCode()
	}

	return 1
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewInternal creates an internal-type error wrapping the provided error.
func NewInternal(err error) error {
	return new(err, "Internal error", TypeInternal, CodeInternal)
}

// NewTransport creates a transport-type error wrapping the provided error.
func NewTransport(err error) error {
	return new(err, "Transport failure", TypeTransport, CodeTransport)
}

// NewSubmission creates a submission error with the specified message.
func NewSubmission(msg string) error {
	return new(nil, msg, TypeSubmission, CodeMissingStatusLocation)
}

// NewPollProtocol creates a poll protocol error with a message and code.
func NewPollProtocol(msg string, code Code) error {
	return new(nil, msg, TypePollProtocol, code)
}

// NewPollTimeout creates a poll timeout error wrapping the expired context error.
func NewPollTimeout(err error) error {
	return new(err, "Poll budget expired", TypePollProtocol, CodePollTimeout)
}

// NewJobOutcome creates a job outcome error carrying the verbatim diagnostic payload.
func NewJobOutcome(msg string) error {
	return new(nil, msg, TypeJobOutcome, CodeErrorIssues)
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}
