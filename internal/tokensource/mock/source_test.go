package mock

import (
	"testing"
	"time"
)

func TestSource_EmitsProgressiveRevisions(t *testing.T) {
	src := New([]SimulatedUtterance{
		{Partials: []string{"I want", "I want to"}, Final: "I want to cancel", Confidence: 0.9},
	}, time.Unix(0, 0))

	msg, ok := src.Next()
	if !ok {
		t.Fatal("expected a message for the first partial")
	}
	if got := len(msg.TokenTexts); got != 2 {
		t.Errorf("first partial: got %d tokens, want 2", got)
	}

	msg, ok = src.Next()
	if !ok || len(msg.TokenTexts) != 3 {
		t.Fatalf("second partial: ok=%v tokens=%d, want ok=true tokens=3", ok, len(msg.TokenTexts))
	}

	msg, ok = src.Next()
	if !ok {
		t.Fatal("expected a message for the final revision")
	}
	if len(msg.SegmentStartTokenIdxs) != 1 {
		t.Errorf("final revision should carry exactly one segment marker, got %d", len(msg.SegmentStartTokenIdxs))
	}

	if _, ok := src.Next(); ok {
		t.Error("expected false once the single utterance is exhausted")
	}
}

func TestSource_CyclesThroughUtterances(t *testing.T) {
	src := New([]SimulatedUtterance{
		{Partials: []string{"a"}, Final: "a b", Confidence: 0.9},
		{Partials: []string{"c"}, Final: "c d", Confidence: 0.9},
	}, time.Unix(0, 0))

	var finals int
	for i := 0; i < 4; i++ {
		msg, ok := src.Next()
		if !ok {
			t.Fatalf("unexpected exhaustion at call %d", i)
		}
		if len(msg.SegmentStartTokenIdxs) == 1 {
			finals++
		}
	}
	if finals != 2 {
		t.Errorf("expected 2 finals across both utterances, got %d", finals)
	}
	if _, ok := src.Next(); ok {
		t.Error("expected false once both utterances are exhausted")
	}
}

func TestSource_Reset(t *testing.T) {
	src := New([]SimulatedUtterance{
		{Partials: []string{"a"}, Final: "a b", Confidence: 0.9},
	}, time.Unix(0, 0))

	src.Next()
	src.Next()
	if _, ok := src.Next(); ok {
		t.Fatal("expected exhaustion before reset")
	}

	src.Reset()
	if _, ok := src.Next(); !ok {
		t.Error("expected Source to emit again after Reset")
	}
}

func TestSource_DefaultsToDefaultUtterances(t *testing.T) {
	src := New(nil, time.Unix(0, 0))
	if len(src.utterances) != len(DefaultUtterances) {
		t.Errorf("expected %d default utterances, got %d", len(DefaultUtterances), len(src.utterances))
	}
}

func TestSource_TimestampsAdvance(t *testing.T) {
	src := New([]SimulatedUtterance{
		{Partials: []string{"a", "a b"}, Final: "a b c", Confidence: 0.9},
	}, time.Unix(0, 0))

	first, _ := src.Next()
	second, _ := src.Next()
	if !second.Stamp.After(first.Stamp) {
		t.Errorf("expected each revision's Stamp to advance, got %v then %v", first.Stamp, second.Stamp)
	}
}
