package notifications

import (
	"context"
	"sync"

	"github.com/dkuznecov/authgate/internal/logging"
)

type event struct {
	topic   string
	payload any
}

// Dispatcher decouples publishing from the request path: events go into a
// bounded queue served by a single worker goroutine. When the queue is full
// the event is dropped and logged, never blocking the caller.
type Dispatcher struct {
	sink   Sink
	logger logging.Logger
	queue  chan event

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewDispatcher starts the worker. queueSize bounds how many undelivered
// events may be pending before new ones are dropped.
func NewDispatcher(sink Sink, logger logging.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}

	d := &Dispatcher{
		sink:   sink,
		logger: logger.With("module", "notifications"),
		queue:  make(chan event, queueSize),
		done:   make(chan struct{}),
	}

	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Publish(context.Background(), ev.topic, ev.payload); err != nil {
			d.logger.Warn(context.Background(), "event publish failed", "topic", ev.topic, "error", err.Error())
		}
	}
}

// Publish enqueues the event. It never blocks and never reports a delivery
// failure; a full queue drops the event with a warning, and so does a
// dispatcher that has already been closed. The lock makes Publish safe to
// call concurrently with Close, which matters during shutdown when an
// in-flight request may still reach the sink.
func (d *Dispatcher) Publish(ctx context.Context, topic string, payload any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn(ctx, "dispatcher closed, dropping event", "topic", topic)
		return nil
	}

	select {
	case d.queue <- event{topic: topic, payload: payload}:
	default:
		d.logger.Warn(ctx, "event queue full, dropping event", "topic", topic)
	}
	return nil
}

// Close stops accepting events and waits for the worker to drain the queue.
// Safe to call more than once; Publish calls after Close drop their event.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
