// Package ingress implements the bounded producer/consumer ring that
// decouples token-message ingestion from the periodic merge cycle.
package ingress

import (
	"errors"
	"sync"

	"speech-transcript-manager/internal/models"
	"speech-transcript-manager/internal/observability/metrics"
)

// DefaultCapacity is the ring's fixed capacity.
const DefaultCapacity = 10

// ErrConsumerBusy is returned by Acquire when another consumer (the Driver
// or an active Infer request) already holds exclusive drain rights.
var ErrConsumerBusy = errors.New("ingress: another consumer already active")

// Ring is a fixed-capacity, mutex-protected queue of word batches. Multiple
// producers may enqueue concurrently; consumption is restricted to exactly
// one active consumer at a time via Acquire/Release.
type Ring struct {
	mu       sync.Mutex
	capacity int
	buf      []batchEntry

	almostFullFn func()
}

type batchEntry struct {
	words []models.Word
}

// New returns an empty Ring with the given capacity. A capacity <= 0 uses
// DefaultCapacity. almostFull, if non-nil, is invoked (outside the lock)
// whenever Enqueue observes the ring at or above capacity-1 — callers wire
// this to a throttled warning log.
func New(capacity int, almostFull func()) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		capacity:     capacity,
		almostFullFn: almostFull,
	}
}

// Len reports the number of batches currently queued.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// AlmostFull reports whether the ring is at or above capacity-1, the
// threshold at which a producer should warn.
func (r *Ring) AlmostFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.almostFull()
}

func (r *Ring) almostFull() bool {
	return len(r.buf) >= r.capacity-1
}

// Enqueue appends a batch of words. If the ring is already at capacity, the
// oldest batch is overwritten (dropped) to make room — the ring never
// blocks a producer. If the ring is at or above the almost-full threshold
// (whether or not this call forces an overwrite), almostFull is invoked.
func (r *Ring) Enqueue(words []models.Word) {
	r.mu.Lock()
	warn := r.almostFull()
	overwrote := len(r.buf) >= r.capacity
	if overwrote {
		r.buf = r.buf[1:]
	}
	r.buf = append(r.buf, batchEntry{words: words})
	depth := len(r.buf)
	r.mu.Unlock()

	metrics.DefaultMetrics.RecordRingEnqueue(depth, overwrote, warn)

	if warn && r.almostFullFn != nil {
		r.almostFullFn()
	}
}

// Dequeue removes and returns the oldest batch. ok is false if the ring is
// empty.
func (r *Ring) Dequeue() (words []models.Word, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) == 0 {
		return nil, false
	}
	e := r.buf[0]
	r.buf = r.buf[1:]
	return e.words, true
}

// DrainAll dequeues every batch currently queued, in FIFO order.
func (r *Ring) DrainAll() [][]models.Word {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) == 0 {
		return nil
	}
	out := make([][]models.Word, len(r.buf))
	for i, e := range r.buf {
		out[i] = e.words
	}
	r.buf = r.buf[:0]
	return out
}

// Consumer enforces the single-active-consumer invariant: exactly one of
// {the Merge Driver, an active Infer request} may drain the Ring at a time.
type Consumer struct {
	mu     sync.Mutex
	active bool
}

// Acquire claims exclusive drain rights, or returns ErrConsumerBusy if
// another consumer already holds them.
func (c *Consumer) Acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		metrics.DefaultMetrics.RecordConsumerBusy()
		return ErrConsumerBusy
	}
	c.active = true
	return nil
}

// Release gives up drain rights.
func (c *Consumer) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}
