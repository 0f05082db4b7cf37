package api

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendkit/sendkit/pkg/observability"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	messages []*Message
	err      error
	panicMsg string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, msg *Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.panicMsg != "" {
		panic(d.panicMsg)
	}
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, msg)
	return nil
}

func (d *recordingDispatcher) setPanic(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panicMsg = msg
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

func discardLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func TestQueueDispatcherDeliversAll(t *testing.T) {
	inner := &recordingDispatcher{}
	qd := NewQueueDispatcher(inner, 3, 16, discardLogger())

	for i := 0; i < 10; i++ {
		err := qd.Dispatch(context.Background(), &Message{ID: fmt.Sprintf("msg-%d", i)})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, qd.Shutdown(ctx))

	assert.Equal(t, 10, inner.count())
}

func TestQueueDispatcherRejectsAfterShutdown(t *testing.T) {
	qd := NewQueueDispatcher(&recordingDispatcher{}, 1, 4, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, qd.Shutdown(ctx))

	err := qd.Dispatch(context.Background(), &Message{ID: "late"})
	assert.ErrorIs(t, err, ErrDispatcherClosed)
}

func TestQueueDispatcherSurvivesPanickingInner(t *testing.T) {
	inner := &recordingDispatcher{panicMsg: "boom"}
	qd := NewQueueDispatcher(inner, 1, 4, discardLogger())

	require.NoError(t, qd.Dispatch(context.Background(), &Message{ID: "doomed"}))

	// The worker must absorb the panic and keep serving.
	inner.setPanic("")
	require.NoError(t, qd.Dispatch(context.Background(), &Message{ID: "survivor"}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, qd.Shutdown(ctx))
}

func TestQueueDispatcherShutdownDrainsQueue(t *testing.T) {
	inner := &recordingDispatcher{}
	qd := NewQueueDispatcher(inner, 1, 32, discardLogger())

	for i := 0; i < 8; i++ {
		require.NoError(t, qd.Dispatch(context.Background(), &Message{ID: fmt.Sprintf("msg-%d", i)}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, qd.Shutdown(ctx))

	assert.Equal(t, 8, inner.count(), "accepted messages must be delivered before shutdown completes")
}
