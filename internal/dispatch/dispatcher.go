package dispatch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/models"
)

// Handler processes one inbound event.
type Handler func(ctx context.Context, evt models.Event)

// Dispatcher drains the inbound event queue and routes each event to the
// handler registered for its kind. The handler table is fixed at
// construction; events with no registered handler are dropped. Worker
// goroutines keep one user's in-flight verification from blocking
// another's.
type Dispatcher struct {
	queue    chan models.Event
	handlers map[models.EventKind]Handler
	workers  int
	logger   zerolog.Logger
}

func NewDispatcher(queueSize, workers int, handlers map[models.EventKind]Handler, logger zerolog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 4
	}
	table := make(map[models.EventKind]Handler, len(handlers))
	for kind, handler := range handlers {
		table[kind] = handler
	}
	return &Dispatcher{
		queue:    make(chan models.Event, queueSize),
		handlers: table,
		workers:  workers,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Enqueue hands an event to the dispatch queue without blocking the caller.
// When the queue is full the event is dropped and false is returned.
func (d *Dispatcher) Enqueue(evt models.Event) bool {
	select {
	case d.queue <- evt:
		return true
	default:
		d.logger.Warn().Str("kind", string(evt.Kind)).Int64("user_id", evt.User.ID).Msg("event queue full, dropping event")
		return false
	}
}

// Run drains the queue until ctx is cancelled, then waits for the workers
// to return. No new events are dequeued after cancellation.
func (d *Dispatcher) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case evt := <-d.queue:
					// The event context outlives cancellation so an
					// in-flight handler can finish; its external calls
					// carry their own timeouts.
					d.dispatch(context.WithoutCancel(ctx), evt)
				}
			}
		}()
	}
	wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, evt models.Event) {
	handler, ok := d.handlers[evt.Kind]
	if !ok {
		d.logger.Debug().Str("kind", string(evt.Kind)).Msg("no handler registered, dropping event")
		return
	}
	handler(ctx, evt)
}
