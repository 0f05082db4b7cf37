package api

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sendkit/sendkit/pkg/observability"
)

// ErrDispatcherClosed is returned by Dispatch after Shutdown has begun.
var ErrDispatcherClosed = errors.New("dispatcher is shut down")

// ErrQueueFull is returned when the dispatch queue cannot accept a message.
var ErrQueueFull = errors.New("dispatch queue is full")

// deliveryTimeout bounds a single delivery attempt so a stuck downstream
// cannot pin a worker forever.
const deliveryTimeout = 30 * time.Second

// QueueDispatcher accepts messages onto a bounded queue and delivers them
// through an inner Dispatcher from a fixed pool of workers. Enqueueing is
// the acceptance boundary: once Dispatch returns nil the caller may report
// the message as accepted, and delivery failures are logged rather than
// surfaced to the sender.
type QueueDispatcher struct {
	inner  Dispatcher
	logger *observability.Logger

	queue  chan *Message
	ctx    context.Context
	cancel context.CancelFunc

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewQueueDispatcher starts workers delivering through inner. queueDepth
// bounds how many accepted messages may await delivery.
func NewQueueDispatcher(inner Dispatcher, workers, queueDepth int, logger *observability.Logger) *QueueDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth <= 0 {
		queueDepth = workers * 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &QueueDispatcher{
		inner:  inner,
		logger: logger,
		queue:  make(chan *Message, queueDepth),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Dispatch enqueues the message for delivery. It never blocks: a full queue
// is an error so the caller can refuse the send instead of stalling the
// request.
func (d *QueueDispatcher) Dispatch(_ context.Context, msg *Message) error {
	select {
	case <-d.ctx.Done():
		return ErrDispatcherClosed
	default:
	}

	select {
	case d.queue <- msg:
		return nil
	case <-d.ctx.Done():
		return ErrDispatcherClosed
	default:
		return ErrQueueFull
	}
}

func (d *QueueDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.ctx.Done():
			// Drain what was accepted before shutdown began.
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

// deliver runs one delivery attempt with panic recovery so a misbehaving
// inner dispatcher cannot take the worker down.
func (d *QueueDispatcher) deliver(msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(map[string]interface{}{
				"message_id": msg.ID,
				"panic":      fmt.Sprintf("%v", r),
				"stack":      string(debug.Stack()),
			}).Error("panic during message delivery")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.inner.Dispatch(ctx, msg); err != nil {
		d.logger.WithError(err).WithField("message_id", msg.ID).Error("message delivery failed")
	}
}

// Shutdown stops accepting new messages, lets the workers drain the queue,
// and waits for them up to the context deadline.
func (d *QueueDispatcher) Shutdown(ctx context.Context) error {
	d.stopOnce.Do(d.cancel)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
