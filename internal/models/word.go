package models

import (
	"math"
	"strings"
	"time"
)

// WordKind tags the Word variant. Dispatch on the tag rather than modeling
// TextWord/Segment as a subclass hierarchy.
type WordKind int

const (
	KindTextWord WordKind = iota
	KindSegment
)

// Word is a tagged union of TextWord and Segment, the two entry types the
// Transcript store holds.
type Word struct {
	Kind WordKind

	// TextWord fields.
	Tokens      []SingleToken
	Text        string
	IsPunct     bool
	Occurrences int

	// Segment fields.
	EndToken SingleToken
	Duration time.Duration
	Start    time.Time
}

// NewTextWord builds a TextWord from its constituent tokens. Text is the
// concatenation of the tokens' texts; Occurrences starts at 1.
func NewTextWord(tokens []SingleToken, isPunct bool) Word {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return Word{
		Kind:        KindTextWord,
		Tokens:      tokens,
		Text:        sb.String(),
		IsPunct:     isPunct,
		Occurrences: 1,
	}
}

// NewSegment builds a Segment marker entry.
func NewSegment(endToken SingleToken, duration time.Duration, start time.Time) Word {
	return Word{
		Kind:        KindSegment,
		EndToken:    endToken,
		Duration:    duration,
		Start:       start,
		Occurrences: 1,
	}
}

// IsSegment reports whether w is a Segment marker.
func (w Word) IsSegment() bool { return w.Kind == KindSegment }

// Comparable returns the word's comparable form: trimmed, lowercased text for
// a non-punctuation TextWord, and the empty string for punctuation words and
// segments (both are skipped during alignment).
func (w Word) Comparable() string {
	if w.Kind == KindSegment || w.IsPunct {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(w.Text))
}

// Prob returns the word's combined probability: the geometric mean of its
// tokens' probabilities, the same combination rule used when the
// deserializer joins multiple tokens into one logical word. A Segment,
// which carries no tokens, always reports 0.
func (w Word) Prob() float64 {
	if w.Kind == KindSegment || len(w.Tokens) == 0 {
		return 0
	}
	logSum := 0.0
	for _, tok := range w.Tokens {
		p := tok.Prob
		if p <= 0 {
			return 0
		}
		logSum += math.Log(p)
	}
	return math.Exp(logSum / float64(len(w.Tokens)))
}

// EditOpKind tags an EditOperation.
type EditOpKind int

const (
	OpMatchedWord EditOpKind = iota
	OpInsert
	OpDecrement
	OpConflict
	OpMergeSegments
)

// EditOperation is one step of a merge plan, referencing entries by index
// into the transcript (A) and the incoming update (B) as they stood when the
// plan was built.
type EditOperation struct {
	Kind EditOpKind
	A    int
	B    int
}
