// Package models defines the data structures that flow through the
// transcript merge engine: raw inference tokens in, a serialized transcript
// out.
package models

import "time"

// SingleToken is the leaf unit emitted by the inference engine. Immutable
// once constructed.
type SingleToken struct {
	Text string
	Prob float64
}

// RawTokenMessage is one overlapping window of inference output: parallel
// token arrays plus segment boundary metadata. This is the wire shape the
// external speech-to-text inference engine is expected to produce (§6
// WhisperTokens in SPEC_FULL.md).
type RawTokenMessage struct {
	// Stamp is the wall-clock time the audio window being described starts at.
	Stamp time.Time

	// TokenTexts and TokenProbs are parallel arrays, one entry per token.
	TokenTexts []string
	TokenProbs []float64

	// SegmentStartTokenIdxs holds, for each segment, the index into
	// TokenTexts/TokenProbs at which that segment begins.
	SegmentStartTokenIdxs []int

	// StartTimes and EndTimes are one entry per segment, in units of 10ms.
	StartTimes []int64
	EndTimes   []int64

	// InferenceDuration is informational only.
	InferenceDuration time.Duration
}

// WhisperTimestampRatio converts the 10ms-granularity segment timestamps
// carried on RawTokenMessage into a time.Duration.
const WhisperTimestampRatio = 10 * time.Millisecond
