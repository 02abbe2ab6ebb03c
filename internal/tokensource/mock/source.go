// Package mock simulates a streaming STT engine for development and tests,
// emitting RawTokenMessages instead of the teacher's OnPartial/OnFinal
// callback pair. Adapted from the teacher's service/stt/mock/adapter.go: the
// SimulatedUtterance progressive-revision table survives unchanged (it is
// exactly the "successive updates shifted slightly in time, each a revision
// of the previous" shape the merge engine exists to handle), but each
// revision is now serialized as a full overlapping token window.
package mock

import (
	"strings"
	"sync"
	"time"

	"speech-transcript-manager/internal/models"
)

// SimulatedUtterance is one utterance's progressive partial revisions plus
// its eventual final text. Partials[i] is a prefix (possibly re-worded) of
// Partials[i+1]; Final is the last, settled revision.
type SimulatedUtterance struct {
	Partials   []string
	Final      string
	Confidence float64
}

// DefaultUtterances are sample utterances for simulation, carried over
// verbatim from the teacher's mock adapter.
var DefaultUtterances = []SimulatedUtterance{
	{
		Partials:   []string{"I want", "I want to", "I want to cancel"},
		Final:      "I want to cancel my subscription",
		Confidence: 0.94,
	},
	{
		Partials:   []string{"Yes", "Yes please"},
		Final:      "Yes please go ahead",
		Confidence: 0.97,
	},
	{
		Partials:   []string{"Can you", "Can you help", "Can you help me with"},
		Final:      "Can you help me with my account",
		Confidence: 0.91,
	},
	{
		Partials:   []string{"I've been", "I've been waiting", "I've been waiting for"},
		Final:      "I've been waiting for over an hour",
		Confidence: 0.89,
	},
	{
		Partials:   []string{"Thank you"},
		Final:      "Thank you very much",
		Confidence: 0.98,
	},
}

// Source emits one SimulatedUtterance's revisions as a sequence of
// RawTokenMessages, one per call to Next, cycling through utterances as
// utterances run out of revisions. Its zero value is not usable; use New.
type Source struct {
	mu         sync.Mutex
	utterances []SimulatedUtterance
	uttIndex   int
	revIndex   int
	clock      time.Time
}

// New builds a Source cycling through utterances (DefaultUtterances if nil),
// with window timestamps starting at start.
func New(utterances []SimulatedUtterance, start time.Time) *Source {
	if len(utterances) == 0 {
		utterances = DefaultUtterances
	}
	return &Source{utterances: utterances, clock: start}
}

// Next returns the next revision as a RawTokenMessage, plus false once every
// utterance has exhausted its revisions (including the final one).
func (s *Source) Next() (models.RawTokenMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uttIndex >= len(s.utterances) {
		return models.RawTokenMessage{}, false
	}
	utt := s.utterances[s.uttIndex]

	var text string
	var prob float64
	final := s.revIndex >= len(utt.Partials)
	if final {
		text = utt.Final
		prob = utt.Confidence
	} else {
		text = utt.Partials[s.revIndex]
		prob = 0.6 + 0.1*float64(s.revIndex)
		if prob > 0.95 {
			prob = 0.95
		}
	}

	msg := tokenize(text, prob, s.clock)
	if final {
		msg.SegmentStartTokenIdxs = []int{0}
		msg.StartTimes = []int64{0}
		msg.EndTimes = []int64{int64(len(msg.TokenTexts)) * 20}
	}

	s.clock = s.clock.Add(200 * time.Millisecond)
	if final {
		s.revIndex = 0
		s.uttIndex++
	} else {
		s.revIndex++
	}

	return msg, true
}

// Reset rewinds the Source to its first utterance's first revision.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uttIndex, s.revIndex = 0, 0
}

// tokenize splits text on whitespace into a RawTokenMessage with a uniform
// per-token probability, one token per word (no segment markers set).
func tokenize(text string, prob float64, stamp time.Time) models.RawTokenMessage {
	fields := strings.Fields(text)
	texts := make([]string, len(fields))
	probs := make([]float64, len(fields))
	for i, f := range fields {
		if i == 0 {
			texts[i] = f
		} else {
			texts[i] = " " + f
		}
		probs[i] = prob
	}
	return models.RawTokenMessage{
		Stamp:      stamp,
		TokenTexts: texts,
		TokenProbs: probs,
	}
}
