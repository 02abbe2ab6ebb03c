package transcript

import (
	"testing"
	"time"

	"speech-transcript-manager/internal/models"
)

func word(text string, prob float64) models.Word {
	return models.NewTextWord([]models.SingleToken{{Text: text, Prob: prob}}, false)
}

func TestPushBackAndSplice(t *testing.T) {
	tr := New()
	if !tr.Empty() {
		t.Fatal("new transcript should be empty")
	}
	tr.PushBack([]models.Word{word("hello", 0.9), word("world", 0.9)})
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	splice := tr.GetWordsSplice()
	if len(splice) != 2 {
		t.Fatalf("splice len = %d, want 2 (stale boundary starts at 0)", len(splice))
	}
}

func TestSetStaleWordIDMonotonic(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("a", 0.9), word("b", 0.9), word("c", 0.9)})
	tr.SetStaleWordID(2)
	if got := tr.GetStaleWordID(); got != 2 {
		t.Fatalf("GetStaleWordID() = %d, want 2", got)
	}
	tr.SetStaleWordID(1)
	if got := tr.GetStaleWordID(); got != 2 {
		t.Fatalf("SetStaleWordID must clamp to non-decreasing, got %d", got)
	}
	tr.SetStaleWordID(3)
	if got := tr.GetStaleWordID(); got != 3 {
		t.Fatalf("GetStaleWordID() = %d, want 3", got)
	}
}

func TestRunMatchedWordIncrementsOccurrences(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("hello", 0.9)})
	tr.Run([]models.EditOperation{{Kind: models.OpMatchedWord, A: 0, B: 0}}, nil)
	if occ := tr.Entries()[0].Occurrences; occ != 2 {
		t.Fatalf("Occurrences = %d, want 2", occ)
	}
}

func TestRunInsertShiftsTail(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("the", 0.9), word("fox", 0.9)})
	newEntries := []models.Word{word("quick", 0.9)}
	tr.Run([]models.EditOperation{{Kind: models.OpInsert, A: 1, B: 0}}, newEntries)
	got := tr.Entries()
	if len(got) != 3 || got[0].Text != "the" || got[1].Text != "quick" || got[2].Text != "fox" {
		t.Fatalf("unexpected entries after insert: %+v", got)
	}
}

func TestRunInsertReverseOrderIsIndexStable(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("the", 0.9), word("fox", 0.9)})
	newEntries := []models.Word{word("quick", 0.9), word("brown", 0.9)}
	// Both INSERTs address indices into the *original* 2-entry transcript.
	ops := []models.EditOperation{
		{Kind: models.OpInsert, A: 1, B: 0},
		{Kind: models.OpInsert, A: 1, B: 1},
	}
	tr.Run(ops, newEntries)
	got := tr.Entries()
	texts := make([]string, len(got))
	for i, w := range got {
		texts[i] = w.Text
	}
	want := []string{"the", "quick", "brown", "fox"}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("texts = %v, want %v", texts, want)
		}
	}
}

func TestRunDecrement(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("hello", 0.9)})
	tr.Run([]models.EditOperation{{Kind: models.OpDecrement, A: 0}}, nil)
	if occ := tr.Entries()[0].Occurrences; occ != 0 {
		t.Fatalf("Occurrences = %d, want 0", occ)
	}
}

func TestRunConflictReplacesOnHigherProb(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("quik", 0.3)})
	tr.Entries()[0].Occurrences = 5
	newEntries := []models.Word{word("quick", 0.9)}
	tr.Run([]models.EditOperation{{Kind: models.OpConflict, A: 0, B: 0}}, newEntries)
	got := tr.Entries()[0]
	if got.Text != "quick" {
		t.Fatalf("Text = %q, want quick", got.Text)
	}
	if got.Occurrences != 5 {
		t.Fatalf("Occurrences should be preserved across conflict replacement, got %d", got.Occurrences)
	}
}

func TestRunConflictKeepsOldOnLowerProb(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("quick", 0.9)})
	newEntries := []models.Word{word("quik", 0.1)}
	tr.Run([]models.EditOperation{{Kind: models.OpConflict, A: 0, B: 0}}, newEntries)
	if got := tr.Entries()[0].Text; got != "quick" {
		t.Fatalf("Text = %q, want quick (lower-prob challenger should not win)", got)
	}
}

func TestRunMergeSegmentsExtendsDuration(t *testing.T) {
	tr := New()
	start := time.Now()
	oldSeg := models.NewSegment(models.SingleToken{Text: ".", Prob: 0.9}, 1000*time.Millisecond, start)
	tr.PushBack([]models.Word{oldSeg})
	newStart := start.Add(200 * time.Millisecond)
	newSeg := models.NewSegment(models.SingleToken{Text: "!", Prob: 0.9}, 1200*time.Millisecond, newStart)
	tr.Run([]models.EditOperation{{Kind: models.OpMergeSegments, A: 0, B: 0}}, []models.Word{newSeg})
	got := tr.Entries()[0]
	if got.Duration != 2200*time.Millisecond {
		t.Fatalf("Duration = %v, want 2200ms", got.Duration)
	}
	if !got.Start.Equal(newStart) {
		t.Fatalf("Start = %v, want %v", got.Start, newStart)
	}
	if got.EndToken.Text != "!" {
		t.Fatalf("EndToken = %q, want !", got.EndToken.Text)
	}
}

func TestClearMistakesRemovesAtOrBelowThreshold(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("a", 0.9), word("b", 0.9), word("c", 0.9)})
	tr.Entries()[1].Occurrences = -1
	tr.ClearMistakes(-1)
	got := tr.Entries()
	if len(got) != 2 || got[0].Text != "a" || got[1].Text != "c" {
		t.Fatalf("unexpected entries after ClearMistakes: %+v", got)
	}
}

func TestClearMistakesClampsStaleWordID(t *testing.T) {
	tr := New()
	tr.PushBack([]models.Word{word("a", 0.9), word("b", 0.9), word("c", 0.9)})
	tr.SetStaleWordID(3)
	tr.Entries()[2].Occurrences = -5
	tr.ClearMistakes(-1)
	if got := tr.GetStaleWordID(); got != 2 {
		t.Fatalf("GetStaleWordID() = %d, want clamp to 2", got)
	}
}
