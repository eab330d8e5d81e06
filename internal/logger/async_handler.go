package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultAsyncBufferSize   = 1024
	defaultAsyncFlushTimeout = 5 * time.Second
)

// AsyncOptions configures the async log pipeline.
type AsyncOptions struct {
	BufferSize   int
	FlushTimeout time.Duration
}

type queuedRecord struct {
	ctx     context.Context
	record  slog.Record
	handler slog.Handler
}

// queue is shared by an AsyncHandler and every handler derived from it.
// mu guards closed and the send on ch so a late record never hits a closed channel.
type queue struct {
	mu           sync.RWMutex
	closed       bool
	ch           chan queuedRecord
	done         chan struct{}
	flushTimeout time.Duration
	dropped      atomic.Uint64
}

func newQueue(opts AsyncOptions) *queue {
	size := opts.BufferSize
	if size <= 0 {
		size = defaultAsyncBufferSize
	}
	flush := opts.FlushTimeout
	if flush <= 0 {
		flush = defaultAsyncFlushTimeout
	}

	q := &queue{
		ch:           make(chan queuedRecord, size),
		done:         make(chan struct{}),
		flushTimeout: flush,
	}
	go q.drain()
	return q
}

func (q *queue) drain() {
	defer close(q.done)
	for rec := range q.ch {
		_ = rec.handler.Handle(rec.ctx, rec.record)
	}
}

func (q *queue) push(rec queuedRecord) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.dropped.Add(1)
		return
	}
	select {
	case q.ch <- rec:
	default:
		q.dropped.Add(1)
	}
}

func (q *queue) close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.flushTimeout)
		defer cancel()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsyncHandler hands records to a background goroutine so a slow remote
// sink never blocks the caller. Records are dropped when the buffer is full.
type AsyncHandler struct {
	q    *queue
	next slog.Handler
}

// NewAsyncHandler starts the background goroutine for next.
func NewAsyncHandler(next slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{q: newQueue(opts), next: next}
}

// Enabled delegates to the wrapped handler.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle queues a clone of r. The context is detached from cancellation
// since the record outlives the call.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	h.q.push(queuedRecord{ctx: context.WithoutCancel(ctx), record: r.Clone(), handler: h.next})
	return nil
}

// WithAttrs implements slog.Handler.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{q: h.q, next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{q: h.q, next: h.next.WithGroup(name)}
}

// Dropped counts records lost to a full buffer or a closed handler.
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil {
		return 0
	}
	return h.q.dropped.Load()
}

// Shutdown stops accepting records and waits for the queue to drain.
// Without a deadline on ctx it waits at most FlushTimeout.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.q == nil {
		return nil
	}
	return h.q.close(ctx)
}
