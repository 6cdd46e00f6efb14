// Package event carries run progress events from the import usecase to the
// console reporter.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.ImportEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.ImportEvent, buffer),
	}
}

func (b *Bus) Publish(ctx context.Context, event entity.ImportEvent) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		b.mu.RUnlock()
		return nil
	case <-ctx.Done():
		b.mu.RUnlock()
		return ctx.Err()
	}
}

func (b *Bus) Subscribe() <-chan entity.ImportEvent {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
