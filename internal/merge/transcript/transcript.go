// Package transcript holds the running transcript: an ordered sequence of
// Word/Segment entries plus the stale-boundary cursor, and the batched edit
// application that the merge planner's output is executed through.
package transcript

import (
	"speech-transcript-manager/internal/models"
)

// Transcript is the process-lifetime store of merged entries. It is not
// safe for concurrent use; callers (the Merge Driver) own it exclusively.
type Transcript struct {
	entries     []models.Word
	staleWordID int
}

// New returns an empty Transcript.
func New() *Transcript {
	return &Transcript{}
}

// Empty reports whether the transcript has no entries.
func (t *Transcript) Empty() bool {
	return len(t.entries) == 0
}

// Len returns the number of entries currently held.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// PushBack appends a batch of entries at the tail, as with cold-start or a
// no-overlap update.
func (t *Transcript) PushBack(entries []models.Word) {
	t.entries = append(t.entries, entries...)
}

// Entries returns the full entry list. Callers must not mutate the returned
// slice directly; use Run.
func (t *Transcript) Entries() []models.Word {
	return t.entries
}

// GetWordsSplice returns the active tail: entries from the stale boundary to
// the end, open to revision by future merges.
func (t *Transcript) GetWordsSplice() []models.Word {
	if t.staleWordID >= len(t.entries) {
		return nil
	}
	return t.entries[t.staleWordID:]
}

// GetStaleWordID returns the current stale boundary.
func (t *Transcript) GetStaleWordID() int {
	return t.staleWordID
}

// SetStaleWordID advances the stale boundary. The store enforces
// monotonicity by clamping: a value lower than the current boundary is a
// no-op.
func (t *Transcript) SetStaleWordID(v int) {
	if v > t.staleWordID {
		t.staleWordID = v
	}
}

// Run applies an ordered list of edit operations atomically. Operations are
// resolved in the index space of the transcript as it stood when the plan
// was built (i.e., indices reference the pre-Run entries slice); Run
// processes them in reverse index order so earlier INSERTs don't shift the
// positions later operations in the same batch still need to address.
func (t *Transcript) Run(ops []models.EditOperation, newEntries []models.Word) {
	for k := len(ops) - 1; k >= 0; k-- {
		op := ops[k]
		switch op.Kind {
		case models.OpMatchedWord:
			t.entries[op.A].Occurrences++

		case models.OpInsert:
			t.insertAt(op.A, newEntries[op.B])

		case models.OpDecrement:
			t.entries[op.A].Occurrences--

		case models.OpConflict:
			t.applyConflict(op.A, newEntries[op.B])

		case models.OpMergeSegments:
			t.applyMergeSegments(op.A, newEntries[op.B])
		}
	}
}

func (t *Transcript) insertAt(a int, entry models.Word) {
	t.entries = append(t.entries, models.Word{})
	copy(t.entries[a+1:], t.entries[a:])
	t.entries[a] = entry
}

func (t *Transcript) applyConflict(a int, newEntry models.Word) {
	old := &t.entries[a]
	if !newEntry.IsSegment() && newEntry.Prob() > old.Prob() {
		occ := old.Occurrences
		*old = newEntry
		old.Occurrences = occ
	}
}

func (t *Transcript) applyMergeSegments(a int, newEntry models.Word) {
	old := &t.entries[a]
	old.Start = newEntry.Start
	old.Duration = old.Duration + newEntry.Duration
	old.EndToken = newEntry.EndToken
}

// ClearMistakes removes entries whose occurrences have fallen to or below
// threshold. The default threshold for aggressive pruning is -1.
func (t *Transcript) ClearMistakes(threshold int) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Occurrences > threshold {
			kept = append(kept, e)
		}
	}
	t.entries = kept
	if t.staleWordID > len(t.entries) {
		t.staleWordID = len(t.entries)
	}
}
