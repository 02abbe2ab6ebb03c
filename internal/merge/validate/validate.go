// Package validate checks a raw token message for the malformed shapes the
// deserializer must never be handed: mismatched parallel-array lengths and
// out-of-range segment indices.
package validate

import (
	"fmt"

	"speech-transcript-manager/internal/models"
)

// Error describes why a message was rejected. The update is discarded and a
// warning logged; the transcript is never mutated on a validation failure.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "malformed token message: " + e.Reason
}

// Message checks msg for structural validity and returns a non-nil *Error
// describing the first problem found, or nil if msg is well-formed.
func Message(msg models.RawTokenMessage) error {
	n := len(msg.TokenTexts)
	if len(msg.TokenProbs) != n {
		return &Error{Reason: fmt.Sprintf("token_texts has %d entries, token_probs has %d", n, len(msg.TokenProbs))}
	}

	numSegs := len(msg.SegmentStartTokenIdxs)
	if len(msg.StartTimes) != numSegs || len(msg.EndTimes) != numSegs {
		return &Error{Reason: fmt.Sprintf(
			"segment_start_token_idxs has %d entries, start_times has %d, end_times has %d",
			numSegs, len(msg.StartTimes), len(msg.EndTimes))}
	}

	prevIdx := -1
	for i, idx := range msg.SegmentStartTokenIdxs {
		if idx < 0 || idx >= n {
			return &Error{Reason: fmt.Sprintf("segment_start_token_idxs[%d] = %d out of range [0, %d)", i, idx, n)}
		}
		if idx <= prevIdx {
			return &Error{Reason: fmt.Sprintf("segment_start_token_idxs is not strictly ascending at index %d", i)}
		}
		prevIdx = idx
	}

	for i := range msg.EndTimes {
		if msg.EndTimes[i] < msg.StartTimes[i] {
			return &Error{Reason: fmt.Sprintf("segment %d has end_time %d before start_time %d", i, msg.EndTimes[i], msg.StartTimes[i])}
		}
	}

	return nil
}
