package ingress

import (
	"testing"

	"speech-transcript-manager/internal/models"
)

func batch(texts ...string) []models.Word {
	var out []models.Word
	for _, t := range texts {
		out = append(out, models.NewTextWord([]models.SingleToken{{Text: t, Prob: 0.9}}, false))
	}
	return out
}

func TestEnqueueDequeueFIFO(t *testing.T) {
	r := New(DefaultCapacity, nil)
	r.Enqueue(batch("a"))
	r.Enqueue(batch("b"))

	got, ok := r.Dequeue()
	if !ok || got[0].Text != "a" {
		t.Fatalf("expected first dequeue to be batch a, got %+v ok=%v", got, ok)
	}
	got, ok = r.Dequeue()
	if !ok || got[0].Text != "b" {
		t.Fatalf("expected second dequeue to be batch b, got %+v ok=%v", got, ok)
	}
	if _, ok := r.Dequeue(); ok {
		t.Fatal("expected empty ring to report !ok")
	}
}

func TestEnqueueOverwritesOldestOnFull(t *testing.T) {
	r := New(2, nil)
	r.Enqueue(batch("a"))
	r.Enqueue(batch("b"))
	r.Enqueue(batch("c")) // ring full at 2, "a" overwritten

	if got := r.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	got, _ := r.Dequeue()
	if got[0].Text != "b" {
		t.Fatalf("expected oldest surviving batch to be b, got %+v", got)
	}
	got, _ = r.Dequeue()
	if got[0].Text != "c" {
		t.Fatalf("expected c, got %+v", got)
	}
}

func TestAlmostFullWarnsButStillEnqueues(t *testing.T) {
	warnings := 0
	r := New(2, func() { warnings++ })
	r.Enqueue(batch("a")) // len becomes 1, capacity-1 == 1, almostFull before this call was len=0>=1 false -> no warn
	if warnings != 0 {
		t.Fatalf("unexpected warning after first enqueue: %d", warnings)
	}
	r.Enqueue(batch("b")) // before this enqueue len=1 >= capacity-1(1) true -> warn fires
	if warnings != 1 {
		t.Fatalf("expected 1 warning, got %d", warnings)
	}
	if got := r.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2 (still enqueued despite warning)", got)
	}
}

func TestDrainAllFIFOOrder(t *testing.T) {
	r := New(DefaultCapacity, nil)
	r.Enqueue(batch("a"))
	r.Enqueue(batch("b"))
	r.Enqueue(batch("c"))

	drained := r.DrainAll()
	if len(drained) != 3 {
		t.Fatalf("got %d batches, want 3", len(drained))
	}
	for i, want := range []string{"a", "b", "c"} {
		if drained[i][0].Text != want {
			t.Fatalf("drained[%d] = %q, want %q", i, drained[i][0].Text, want)
		}
	}
	if r.Len() != 0 {
		t.Fatal("ring should be empty after DrainAll")
	}
}

func TestConsumerMutualExclusion(t *testing.T) {
	var c Consumer
	if err := c.Acquire(); err != nil {
		t.Fatalf("first Acquire should succeed, got %v", err)
	}
	if err := c.Acquire(); err != ErrConsumerBusy {
		t.Fatalf("second concurrent Acquire should fail with ErrConsumerBusy, got %v", err)
	}
	c.Release()
	if err := c.Acquire(); err != nil {
		t.Fatalf("Acquire after Release should succeed, got %v", err)
	}
}
