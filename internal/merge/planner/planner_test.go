package planner

import (
	"testing"
	"time"

	"speech-transcript-manager/internal/merge/align"
	"speech-transcript-manager/internal/models"
)

func tw(text string, prob float64) models.Word {
	return models.NewTextWord([]models.SingleToken{{Text: text, Prob: prob}}, false)
}

func punct(text string) models.Word {
	return models.NewTextWord([]models.SingleToken{{Text: text, Prob: 0.99}}, true)
}

// buildSkips returns, for each comparable position, the count of
// non-comparable (punct/segment) entries preceding it in words.
func buildSkips(words []models.Word) (comparable []string, skip []int) {
	skipped := 0
	for _, w := range words {
		if w.Comparable() == "" {
			skipped++
			continue
		}
		comparable = append(comparable, w.Comparable())
		skip = append(skip, skipped)
	}
	return comparable, skip
}

func planFor(t *testing.T, opts Options, old, new []models.Word, gapBudget int) []models.EditOperation {
	t.Helper()
	compA, skipA := buildSkips(old)
	compB, skipB := buildSkips(new)
	indexA, indexB := align.Align(compA, compB, gapBudget)
	return Plan(opts, old, new, indexA, indexB, skipA, skipB)
}

func TestScenario2_PureExtension(t *testing.T) {
	old := []models.Word{tw("the", 0.9), tw("quick", 0.9)}
	new := []models.Word{tw("the", 0.9), tw("quick", 0.9), tw("brown", 0.9), tw("fox", 0.9)}
	ops := planFor(t, DefaultOptions(), old, new, 1)

	want := []models.EditOperation{
		{Kind: models.OpMatchedWord, A: 0, B: 0},
		{Kind: models.OpMatchedWord, A: 1, B: 1},
		{Kind: models.OpInsert, A: 2, B: 2},
		{Kind: models.OpInsert, A: 2, B: 3},
	}
	assertOpsEqual(t, ops, want)
}

func TestScenario3_InteriorRevision(t *testing.T) {
	old := []models.Word{tw("the", 0.9), tw("quik", 0.3), tw("brown", 0.9)}
	new := []models.Word{tw("the", 0.9), tw("quick", 0.9), tw("brown", 0.9)}
	ops := planFor(t, DefaultOptions(), old, new, 1)

	want := []models.EditOperation{
		{Kind: models.OpMatchedWord, A: 0, B: 0},
		{Kind: models.OpConflict, A: 1, B: 1},
		{Kind: models.OpMatchedWord, A: 2, B: 2},
	}
	assertOpsEqual(t, ops, want)
}

func TestScenario4_PunctuationUpgrade(t *testing.T) {
	old := []models.Word{tw("yes", 0.9), punct(","), tw("please", 0.9)}
	new := []models.Word{tw("yes", 0.9), tw("indeed", 0.9), tw("please", 0.9)}
	ops := planFor(t, DefaultOptions(), old, new, 1)

	want := []models.EditOperation{
		{Kind: models.OpMatchedWord, A: 0, B: 0},
		{Kind: models.OpDecrement, A: 1},
		{Kind: models.OpConflict, A: 1, B: 1},
		{Kind: models.OpMatchedWord, A: 2, B: 2},
	}
	assertOpsEqual(t, ops, want)
}

func TestScenario5_SegmentFusion(t *testing.T) {
	start := time.Now()
	oldSeg := models.NewSegment(models.SingleToken{Text: ".", Prob: 0.9}, 1000*time.Millisecond, start)
	newSeg := models.NewSegment(models.SingleToken{Text: "!", Prob: 0.9}, 1200*time.Millisecond, start.Add(200*time.Millisecond))

	old := []models.Word{tw("hi", 0.9), oldSeg, tw("there", 0.9)}
	new := []models.Word{tw("hi", 0.9), newSeg, tw("there", 0.9)}
	ops := planFor(t, DefaultOptions(), old, new, 1)

	want := []models.EditOperation{
		{Kind: models.OpMatchedWord, A: 0, B: 0},
		{Kind: models.OpMergeSegments, A: 1, B: 1},
		{Kind: models.OpMatchedWord, A: 2, B: 2},
	}
	assertOpsEqual(t, ops, want)
}

func TestRule02_SegmentDroppedEmitsTwoDecrements(t *testing.T) {
	seg := models.NewSegment(models.SingleToken{Text: ".", Prob: 0.9}, time.Second, time.Now())
	old := []models.Word{tw("hi", 0.9), seg, tw("there", 0.9)}
	new := []models.Word{tw("hi", 0.9), tw("there", 0.9)}
	ops := planFor(t, DefaultOptions(), old, new, 1)

	want := []models.EditOperation{
		{Kind: models.OpMatchedWord, A: 0, B: 0},
		{Kind: models.OpDecrement, A: 1},
		{Kind: models.OpDecrement, A: 1},
		{Kind: models.OpMatchedWord, A: 2, B: 1},
	}
	assertOpsEqual(t, ops, want)
}

func TestRule03_NewSegmentInsertsWithoutConsumingOld(t *testing.T) {
	seg := models.NewSegment(models.SingleToken{Text: ".", Prob: 0.9}, time.Second, time.Now())
	old := []models.Word{tw("hi", 0.9), tw("there", 0.9)}
	new := []models.Word{tw("hi", 0.9), seg, tw("there", 0.9)}
	ops := planFor(t, DefaultOptions(), old, new, 1)

	want := []models.EditOperation{
		{Kind: models.OpMatchedWord, A: 0, B: 0},
		{Kind: models.OpInsert, A: 1, B: 1},
		{Kind: models.OpMatchedWord, A: 1, B: 2},
	}
	assertOpsEqual(t, ops, want)
}

func TestDecrementOnConflictOption(t *testing.T) {
	old := []models.Word{tw("the", 0.9), tw("quik", 0.3), tw("brown", 0.9)}
	new := []models.Word{tw("the", 0.9), tw("quick", 0.9), tw("brown", 0.9)}
	opts := DefaultOptions()
	opts.DecrementOnConflict = true
	ops := planFor(t, opts, old, new, 1)

	want := []models.EditOperation{
		{Kind: models.OpMatchedWord, A: 0, B: 0},
		{Kind: models.OpConflict, A: 1, B: 1},
		{Kind: models.OpDecrement, A: 1},
		{Kind: models.OpMatchedWord, A: 2, B: 2},
	}
	assertOpsEqual(t, ops, want)
}

func TestEmptyAlignmentReturnsNil(t *testing.T) {
	old := []models.Word{tw("foo", 0.9), tw("bar", 0.9)}
	new := []models.Word{tw("baz", 0.9), tw("qux", 0.9)}
	ops := planFor(t, DefaultOptions(), old, new, 4)
	if ops != nil {
		t.Fatalf("expected nil ops on empty alignment, got %v", ops)
	}
}

func TestNextStaleWordID(t *testing.T) {
	if got := NextStaleWordID(5, 3, 1); got != 7 {
		t.Fatalf("NextStaleWordID(5,3,1) = %d, want 7", got)
	}
	if got := NextStaleWordID(5, 1, 3); got != 5 {
		t.Fatalf("NextStaleWordID(5,1,3) = %d, want 5 (clamped, never decreases)", got)
	}
}

func assertOpsEqual(t *testing.T, got, want []models.EditOperation) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ops = %+v, want %+v (length mismatch)", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op[%d] = %+v, want %+v\nfull got: %+v", i, got[i], want[i], got)
		}
	}
}
