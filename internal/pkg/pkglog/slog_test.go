package pkglog

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

type captureHandler struct {
	attrs map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	if h.attrs == nil {
		h.attrs = make(map[string]slog.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.attrs[a.Key] = a.Value
		return true
	})
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(_ string) slog.Handler {
	return h
}

func TestContextHandlerAddsServiceAndRunID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture}

	ctx := SetRunID(context.Background(), "run-abc")
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	if err := handler.Handle(ctx, rec); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := capture.attrs["service"].String(); got != "bulkimport" {
		t.Fatalf("expected service=bulkimport, got %q", got)
	}
	if got := capture.attrs["run_id"].String(); got != "run-abc" {
		t.Fatalf("expected run_id=run-abc, got %q", got)
	}
}

func TestContextHandlerSkipsMissingRunID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	if err := handler.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if _, ok := capture.attrs["run_id"]; ok {
		t.Fatalf("did not expect run_id to be set")
	}
	if got := capture.attrs["service"].String(); got != "bulkimport" {
		t.Fatalf("expected service=bulkimport, got %q", got)
	}
}
