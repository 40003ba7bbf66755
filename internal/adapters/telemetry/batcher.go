// Package telemetry bridges OpenTelemetry spans to the renderers.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit flushes the buffer once it holds this many bytes.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit flushes the buffer at least this often.
	DefaultTimeLimit = 50 * time.Millisecond
)

// BatchProcessor coalesces small writes into chunks before handing them
// to the flush callback. It is safe for concurrent use.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buf    *bytes.Buffer
	ticker *time.Ticker
	stop   chan struct{}
	closed bool
}

// NewBatchProcessor returns a running BatchProcessor. Limits of zero or
// below pick the defaults. Close stops the background flusher.
func NewBatchProcessor(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *BatchProcessor {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	b := &BatchProcessor{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		buf:       new(bytes.Buffer),
		stop:      make(chan struct{}),
	}

	b.ticker = time.NewTicker(timeLimit)
	go b.run()

	return b
}

// Write buffers p, flushing synchronously once the size limit is
// crossed.
func (b *BatchProcessor) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.New("batch processor is closed")
	}

	n, err := b.buf.Write(p)
	if err != nil {
		return n, err
	}

	if b.buf.Len() >= b.sizeLimit {
		b.flushLocked()
		// A size-triggered flush restarts the clock for the next batch.
		b.ticker.Reset(b.timeLimit)
	}

	return n, nil
}

// Flush hands any buffered data to the callback.
func (b *BatchProcessor) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.flushLocked()
}

// Close performs a final flush and stops the background flusher. It is
// idempotent; writes after Close fail.
func (b *BatchProcessor) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	close(b.stop)
	b.flushLocked()
	return nil
}

func (b *BatchProcessor) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stop:
			b.ticker.Stop()
			return
		}
	}
}

// flushLocked requires b.mu to be held. The callback runs under the
// lock, which keeps chunks ordered; it must not block.
func (b *BatchProcessor) flushLocked() {
	if b.buf.Len() == 0 {
		return
	}

	data := make([]byte, b.buf.Len())
	copy(data, b.buf.Bytes())
	b.buf.Reset()

	if b.onFlush != nil {
		b.onFlush(data)
	}
}
