package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/ashfall/internal/logger"
)

type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
	notAfter time.Time
}

// ResilientPublisher wraps a Bus: a failed publish is retried in the
// background with exponential backoff and dead-lettered once retries run out.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	wg         sync.WaitGroup
	once       sync.Once
}

var _ Bus = (*ResilientPublisher)(nil)

// NewResilientPublisher starts the retry worker. Dead letters go to deadLetterPath.
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// Publish implements Bus. It never fails the caller: failures are retried.
func (rp *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	rp.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the wrapped bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

// PublishWithRetry publishes once and queues the event for retry on failure
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := rp.bus.Publish(ctx, event)
	if err == nil {
		return
	}
	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)
	rp.enqueue(ctx, retryEntry{
		event:    event,
		attempts: 1,
		lastErr:  err,
		notAfter: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
	})
}

func (rp *ResilientPublisher) enqueue(ctx context.Context, entry retryEntry) {
	select {
	case rp.retryQueue <- entry:
	default:
		logger.FromContext(ctx).Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		rp.writeDeadLetter(ctx, entry)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()
	ctx := context.Background()

	for {
		select {
		case entry := <-rp.retryQueue:
			if wait := time.Until(entry.notAfter); wait > 0 {
				select {
				case <-time.After(wait):
				case <-rp.shutdown:
				}
			}
			rp.retry(ctx, entry)
		case <-rp.shutdown:
			rp.drain(ctx)
			return
		}
	}
}

func (rp *ResilientPublisher) retry(ctx context.Context, entry retryEntry) {
	log := logger.FromContext(ctx)
	err := rp.bus.Publish(ctx, entry.event)
	if err == nil {
		log.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempts", entry.attempts+1)
		return
	}

	entry.attempts++
	entry.lastErr = err
	if entry.attempts > rp.maxRetries {
		rp.writeDeadLetter(ctx, entry)
		return
	}
	log.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempts, "error", err)
	entry.notAfter = time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempts))
	rp.enqueue(ctx, entry)
}

// drain makes one last attempt for everything still queued
func (rp *ResilientPublisher) drain(ctx context.Context) {
	n := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			n++
			if err := rp.bus.Publish(ctx, entry.event); err != nil {
				entry.attempts++
				entry.lastErr = err
				rp.writeDeadLetter(ctx, entry)
			}
		default:
			if n > 0 {
				logger.FromContext(ctx).Info(LogMsgQueueDrained, "events", n)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(ctx context.Context, entry retryEntry) {
	log := logger.FromContext(ctx)
	if err := rp.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		log.Error(LogMsgDeadLetterFailed, "event_type", entry.event.Type, "error", err)
		return
	}
	log.Warn(LogMsgEventDeadLettered, "event_type", entry.event.Type, "attempts", entry.attempts)
}

// Shutdown stops the worker after draining the queue and closes the dead-letter file
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.once.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}
