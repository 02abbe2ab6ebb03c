package models

import "time"

// AudioTranscript is the serialized transcript emitted after each non-empty
// merge cycle. Segments are carried out-of-band from the word arrays via the
// parallel SegStart* slices: SegStartWordsID[i] is the index into Words at
// which the i'th segment begins.
type AudioTranscript struct {
	Words []string
	Probs []float64
	Occ   []int

	SegStartWordsID []int
	SegStartTime    []time.Time
	SegDurationMs   []int64

	// ActiveIndex is the stale boundary translated into word-index space:
	// the stale word ID minus the number of segments preceding it.
	ActiveIndex int
}
