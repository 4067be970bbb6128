package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ErrQueueFull is returned by Queue.Emit when the buffer has no room.
var ErrQueueFull = errors.New("audit queue full")

// Queue is an Emitter that hands events to a Worker through a buffered
// channel, so request paths never wait on slow sinks.
type Queue struct {
	inbox chan Event
}

// NewQueue creates a queue holding up to size pending events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{inbox: make(chan Event, size)}
}

// Emit enqueues the event without blocking.
func (q *Queue) Emit(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.inbox <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Worker consumes queued audit events and forwards them to a sink. It keeps
// background processing testable without a real broker.
type Worker struct {
	sink   Emitter
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Emitter, queue *Queue, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: queue.inbox, logger: logger}
}

// Run forwards events until ctx is cancelled. Sink failures are logged and
// do not stop the worker. Events still buffered at shutdown are flushed with
// a context that is no longer cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-w.inbox:
			w.forward(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.inbox:
			w.forward(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) forward(ctx context.Context, event Event) {
	if err := w.sink.Emit(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to forward audit event",
			"error", err,
			"evaluation_id", event.EvaluationID,
			"audit_event_id", event.ID,
		)
	}
}
