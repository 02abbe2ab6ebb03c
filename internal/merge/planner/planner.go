// Package planner applies the fixed conflict-resolution rule set to an
// aligner anchor chain, producing the ordered list of edit operations the
// Transcript Store's Run executes.
package planner

import (
	"speech-transcript-manager/internal/models"
)

// Options exposes the two behaviors the original implementation leaves
// ambiguous (see DESIGN.md) as explicit configuration instead of baked-in
// guesses.
type Options struct {
	// ProcessPrefixBeforeFirstAnchor, when true, runs the same rule set on
	// the region before the first anchor pair instead of leaving it
	// untouched. Default false: the committed prefix is left alone.
	ProcessPrefixBeforeFirstAnchor bool

	// DecrementOnConflict, when true, also decrements the old side's
	// occurrences on a gap-interior CONFLICT (rule 1.2). Default false:
	// frequent homophone oscillation would otherwise starve correct words.
	DecrementOnConflict bool
}

// DefaultOptions returns the options matching the original implementation's
// observed behavior.
func DefaultOptions() Options {
	return Options{
		ProcessPrefixBeforeFirstAnchor: false,
		DecrementOnConflict:            false,
	}
}

// Plan walks the anchor chain (indexA, indexB — indices into the comparable
// projections of old/new) and returns the ordered edit operations. old and
// new are the full entry sequences (segments and punctuation included);
// indexA/indexB are translated to absolute positions via skipA/skipB, the
// prefix-offset vectors recording, for each comparable position, the count
// of non-comparable entries preceding it.
//
// If indexA is empty, Plan returns nil; the caller appends new to the
// transcript via PushBack instead of calling Run.
func Plan(opts Options, old, new []models.Word, indexA, indexB, skipA, skipB []int) []models.EditOperation {
	if len(indexA) == 0 {
		return nil
	}

	abs := func(idx []int, skip []int, k int) int {
		return idx[k] + skip[idx[k]]
	}

	var ops []models.EditOperation

	if opts.ProcessPrefixBeforeFirstAnchor {
		firstA := abs(indexA, skipA, 0)
		firstB := abs(indexB, skipB, 0)
		ops = append(ops, walk(opts, old, new, 0, 0, firstA, firstB)...)
	}

	for k := 0; k < len(indexA); k++ {
		prevA := abs(indexA, skipA, k)
		prevB := abs(indexB, skipB, k)
		ops = append(ops, models.EditOperation{Kind: models.OpMatchedWord, A: prevA, B: prevB})

		var nextA, nextB int
		if k+1 < len(indexA) {
			nextA = abs(indexA, skipA, k+1)
			nextB = abs(indexB, skipB, k+1)
		} else {
			nextA = len(old)
			nextB = len(new)
		}
		ops = append(ops, walk(opts, old, new, prevA+1, prevB+1, nextA, nextB)...)
	}

	return ops
}

// walk applies the priority-ordered rule set to the half-open region
// [curA, nextA) x [curB, nextB).
func walk(opts Options, old, new []models.Word, curA, curB, nextA, nextB int) []models.EditOperation {
	var ops []models.EditOperation

	for curA < nextA || curB < nextB {
		aInRange := curA < nextA
		bInRange := curB < nextB

		switch {
		case aInRange && bInRange && old[curA].IsSegment() && new[curB].IsSegment():
			// 0.1 Segment-Segment coincidence.
			ops = append(ops, models.EditOperation{Kind: models.OpMergeSegments, A: curA, B: curB})
			curA++
			curB++

		case aInRange && old[curA].IsSegment() && (!bInRange || !new[curB].IsSegment()):
			// 0.2 Segment dropped in update: two DECREMENTs on the same index.
			ops = append(ops,
				models.EditOperation{Kind: models.OpDecrement, A: curA},
				models.EditOperation{Kind: models.OpDecrement, A: curA},
			)
			curA++

		case bInRange && new[curB].IsSegment():
			// 0.3 New segment in update.
			ops = append(ops, models.EditOperation{Kind: models.OpInsert, A: curA, B: curB})
			curB++

		case aInRange && bInRange && old[curA].IsPunct && !new[curB].IsPunct:
			// 1. Punct replaced by word.
			ops = append(ops,
				models.EditOperation{Kind: models.OpDecrement, A: curA},
				models.EditOperation{Kind: models.OpConflict, A: curA, B: curB},
			)
			curA++
			curB++

		case aInRange && bInRange:
			// 1.2 Gap-interior conflict.
			ops = append(ops, models.EditOperation{Kind: models.OpConflict, A: curA, B: curB})
			if opts.DecrementOnConflict {
				ops = append(ops, models.EditOperation{Kind: models.OpDecrement, A: curA})
			}
			curA++
			curB++

		case bInRange:
			// 1.3 Insertion.
			ops = append(ops, models.EditOperation{Kind: models.OpInsert, A: curA, B: curB})
			curB++

		default:
			// 1.4 Deletion.
			ops = append(ops, models.EditOperation{Kind: models.OpDecrement, A: curA})
			curA++
		}
	}

	return ops
}

// NextStaleWordID computes the post-merge stale boundary: the later of the
// existing boundary and the existing boundary shifted by how much further
// into old the first anchor lies than into new. firstIA/firstIB are the
// aligner's raw comparable-space anchor indices (IA[0]/IB[0]), not
// translated to absolute transcript positions.
func NextStaleWordID(staleOld, firstIA, firstIB int) int {
	candidate := staleOld + firstIA - firstIB
	if candidate > staleOld {
		return candidate
	}
	return staleOld
}
