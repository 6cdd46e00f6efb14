package pkgerror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTypeString(t *testing.T) {
	if got := TypeTransport.String(); got != "ERROR_TYPE_TRANSPORT" {
		t.Fatalf("unexpected transport string: %q", got)
	}
	if got := TypeSubmission.String(); got != "ERROR_TYPE_SUBMISSION" {
		t.Fatalf("unexpected submission string: %q", got)
	}
	if got := TypePollProtocol.String(); got != "ERROR_TYPE_POLL_PROTOCOL" {
		t.Fatalf("unexpected poll protocol string: %q", got)
	}
	if got := TypeJobOutcome.String(); got != "ERROR_TYPE_JOB_OUTCOME" {
		t.Fatalf("unexpected job outcome string: %q", got)
	}
	if got := Type(99).String(); got != "ERROR_TYPE_UNKNOWN" {
		t.Fatalf("unexpected unknown type string: %q", got)
	}
}

func TestCodeString(t *testing.T) {
	if got := CodeMissingStatusLocation.String(); got != "ERROR_CODE_MISSING_STATUS_LOCATION" {
		t.Fatalf("unexpected missing status location string: %q", got)
	}
	if got := CodePollTimeout.String(); got != "ERROR_CODE_POLL_TIMEOUT" {
		t.Fatalf("unexpected poll timeout string: %q", got)
	}
	if got := Code(99).String(); got != "ERROR_CODE_INTERNAL" {
		t.Fatalf("unexpected default code string: %q", got)
	}
}

func TestErrorHelpers(t *testing.T) {
	root := errors.New("boom")
	err := NewTransport(root)
	gerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected wrapped error")
	}
	if got := gerr.Msg(); got != "Transport failure" {
		t.Fatalf("unexpected msg: %q", got)
	}
	if got := gerr.Type(); got != TypeTransport {
		t.Fatalf("unexpected type: %v", got)
	}
	if got := gerr.Code(); got != CodeTransport {
		t.Fatalf("unexpected code: %v", got)
	}
	if got := gerr.Error(); got != "boom" {
		t.Fatalf("unexpected error string: %q", got)
	}
}

func TestExitCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("plain"), 1},
		{NewInternal(errors.New("x")), 1},
		{NewTransport(errors.New("x")), 10},
		{NewSubmission("no handle"), 11},
		{NewPollProtocol("bad status", CodeUnexpectedStatus), 12},
		{NewPollProtocol("bad content type", CodeUnexpectedContentType), 12},
		{NewPollProtocol("bad payload", CodeUnexpectedPayload), 12},
		{NewPollTimeout(errors.New("deadline")), 13},
		{NewJobOutcome("issues"), 14},
		{fmt.Errorf("wrapped: %w", NewSubmission("no handle")), 11},
	}

	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v): expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestErrorStringIncludesDetails(t *testing.T) {
	err := NewBusiness("message", CodeConflict).(*Error)
	str := err.String()
	if !strings.Contains(str, "ERROR_TYPE_BUSINESS") {
		t.Fatalf("expected error type in string: %q", str)
	}
	if !strings.Contains(str, "ERROR_CODE_CONFLICT") {
		t.Fatalf("expected error code in string: %q", str)
	}
	if !strings.Contains(str, "message") {
		t.Fatalf("expected message in string: %q", str)
	}
}
