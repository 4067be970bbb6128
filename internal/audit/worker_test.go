package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestQueueEmit(t *testing.T) {
	q := NewQueue(1)
	event := Event{ID: uuid.New()}

	require.NoError(t, q.Emit(context.Background(), event))
	assert.ErrorIs(t, q.Emit(context.Background(), event), ErrQueueFull)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewQueue(1).Emit(ctx, event), context.Canceled)
}

func TestWorkerForwardsQueuedEvents(t *testing.T) {
	q := NewQueue(8)
	sink := &recordingEmitter{}
	w := NewWorker(sink, q, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for range 3 {
		require.NoError(t, q.Emit(context.Background(), Event{ID: uuid.New()}))
	}
	assert.Eventually(t, func() bool { return sink.count() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerDrainsOnShutdown(t *testing.T) {
	q := NewQueue(8)
	sink := &recordingEmitter{}
	w := NewWorker(sink, q, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for range 4 {
		require.NoError(t, q.Emit(context.Background(), Event{ID: uuid.New()}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Run(ctx), context.Canceled)
	assert.Equal(t, 4, sink.count())
}

func TestWorkerSurvivesSinkFailure(t *testing.T) {
	q := NewQueue(8)
	sink := &recordingEmitter{err: errors.New("db down")}
	w := NewWorker(sink, q, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, q.Emit(context.Background(), Event{ID: uuid.New()}))
	require.NoError(t, q.Emit(context.Background(), Event{ID: uuid.New()}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Run(ctx), context.Canceled)
	assert.Equal(t, 2, sink.count())
}
