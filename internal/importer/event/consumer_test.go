package event

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []entity.ImportEvent
}

func (h *recordingHandler) Handle(ctx context.Context, event entity.ImportEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHandler) all() []entity.ImportEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]entity.ImportEvent(nil), h.events...)
}

func TestConsumerDeliversEvents(t *testing.T) {
	bus := NewBus(8)
	handler := &recordingHandler{}
	consumer := NewReporterConsumer(bus, handler, ConsumerConfig{})
	consumer.Start()

	ctx := context.Background()
	events := []entity.ImportEvent{
		{EventID: 1, Dataset: "A-META", Kind: entity.EventKindSubmitted, Message: "http://fhir/status/1"},
		{EventID: 2, Dataset: "A-META", Kind: entity.EventKindSucceeded, Message: "imported 10 resources"},
	}
	for _, ev := range events {
		if err := bus.Publish(ctx, ev); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := consumer.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	got := handler.all()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestConsumerDropsDuplicateEventIDs(t *testing.T) {
	bus := NewBus(8)
	handler := &recordingHandler{}
	consumer := NewReporterConsumer(bus, handler, ConsumerConfig{})
	consumer.Start()

	ctx := context.Background()
	ev := entity.ImportEvent{EventID: 7, Dataset: "A-META", Kind: entity.EventKindSucceeded, Message: "done"}
	for i := 0; i < 3; i++ {
		if err := bus.Publish(ctx, ev); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := consumer.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := len(handler.all()); got != 1 {
		t.Fatalf("expected 1 delivery, got %d", got)
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	bus := NewBus(1)
	bus.Close()

	err := bus.Publish(context.Background(), entity.ImportEvent{EventID: 1})
	if err != ErrBusClosed {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestConsoleReporterLines(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporter(&buf)
	ctx := context.Background()

	events := []entity.ImportEvent{
		{Dataset: "A-META", Kind: entity.EventKindSkipped, Message: "no importable files"},
		{Dataset: "B-META", Kind: entity.EventKindSubmitted, Message: "http://fhir/status/9"},
		{Dataset: "B-META", Kind: entity.EventKindSucceeded, Message: "imported 42 resources"},
		{Dataset: "C-META", Kind: entity.EventKindFailed, Message: "poll budget exhausted"},
	}
	for _, ev := range events {
		if err := reporter.Handle(ctx, ev); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}

	out := buf.String()
	for _, want := range []string{
		"A-META: skipped (no importable files)",
		"B-META: submitted, polling http://fhir/status/9",
		"B-META: succeeded, imported 42 resources",
		"C-META: FAILED: poll budget exhausted",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
