package event

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.ImportEvent) error
}

type ConsumerConfig struct {
	Workers int
}

// ReporterConsumer drains the bus and hands each event to a handler.
// Duplicate event IDs are dropped so a re-published event never produces
// a second report line.
type ReporterConsumer struct {
	bus     *Bus
	handler Handler
	workers int
	seen    sync.Map
	wg      sync.WaitGroup
}

func NewReporterConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *ReporterConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &ReporterConsumer{
		bus:     bus,
		handler: handler,
		workers: workers,
	}
}

func (c *ReporterConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for the workers to drain it.
func (c *ReporterConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ReporterConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *ReporterConsumer) processEvent(event entity.ImportEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != 0 {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate import event", "event_id", event.EventID, "dataset", event.Dataset)
			return
		}
	}

	if err := c.handler.Handle(context.Background(), event); err != nil {
		slog.Error("failed to report import event", "event_id", event.EventID, "dataset", event.Dataset, "error", err)
	}
}

// ConsoleReporter renders progress events as operator-facing lines.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (r *ConsoleReporter) Handle(ctx context.Context, event entity.ImportEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch event.Kind {
	case entity.EventKindSkipped:
		_, err = fmt.Fprintf(r.w, "%s: skipped (%s)\n", event.Dataset, event.Message)
	case entity.EventKindSubmitted:
		_, err = fmt.Fprintf(r.w, "%s: submitted, polling %s\n", event.Dataset, event.Message)
	case entity.EventKindSucceeded:
		_, err = fmt.Fprintf(r.w, "%s: succeeded, %s\n", event.Dataset, event.Message)
	case entity.EventKindFailed:
		_, err = fmt.Fprintf(r.w, "%s: FAILED: %s\n", event.Dataset, event.Message)
	default:
		_, err = fmt.Fprintf(r.w, "%s: %s\n", event.Dataset, event.Message)
	}

	return err
}
