// Package deserialize converts a raw inference token message into the
// ordered Word/Segment sequence the aligner and planner operate on.
package deserialize

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"speech-transcript-manager/internal/models"
)

func tsToDuration(units int64) time.Duration {
	return time.Duration(units) * models.WhisperTimestampRatio
}

// specialTokenPattern matches bracketed underscore-delimited control tokens
// such as "[_TT_300_]", which carry no transcript content.
var specialTokenPattern = regexp.MustCompile(`^\[_[^\[\]]*_\]$`)

// Joiner decides whether the upcoming tokens at position i in texts should
// be combined into one logical word, and if so how many tokens that
// composite spans. Implementations cover contractions split across tokens,
// currency+number pairs, and numeric fragments joined by a connective.
// Grounded in the teacher's stt.Adapter/Callback interface-delegation
// pattern: the deserializer loop stays fixed, the joining heuristic is
// swappable.
type Joiner interface {
	Join(texts []string, i int) (join bool, numTokens int)
}

// NoopJoiner never joins; every token is its own word.
type NoopJoiner struct{}

// Join implements Joiner.
func (NoopJoiner) Join([]string, int) (bool, int) { return false, 1 }

// Deserialize converts msg into an ordered list of Words (TextWords and
// Segments interleaved) using joiner to decide multi-token composites.
func Deserialize(msg models.RawTokenMessage, joiner Joiner) []models.Word {
	if joiner == nil {
		joiner = NoopJoiner{}
	}

	var out []models.Word
	var wip []models.SingleToken

	flush := func() {
		if len(wip) == 0 {
			return
		}
		out = append(out, models.NewTextWord(wip, false))
		wip = nil
	}

	segIdx := 0
	nextSegStart := func() int {
		if segIdx < len(msg.SegmentStartTokenIdxs) {
			return msg.SegmentStartTokenIdxs[segIdx]
		}
		return -1
	}

	n := len(msg.TokenTexts)
	i := 0
	for i < n {
		if nextSegStart() == i {
			flush()
			endIdx := i
			if segIdx+1 < len(msg.SegmentStartTokenIdxs) {
				endIdx = msg.SegmentStartTokenIdxs[segIdx+1] - 1
			} else {
				endIdx = n - 1
			}
			if endIdx < 0 || endIdx >= n {
				endIdx = n - 1
			}
			endToken := models.SingleToken{Text: msg.TokenTexts[endIdx], Prob: msg.TokenProbs[endIdx]}
			duration := tsToDuration(msg.EndTimes[segIdx] - msg.StartTimes[segIdx])
			start := msg.Stamp.Add(tsToDuration(msg.StartTimes[segIdx]))
			out = append(out, models.NewSegment(endToken, duration, start))
			segIdx++
		}

		text := msg.TokenTexts[i]

		// A token that starts a new whitespace-delimited word flushes
		// whatever composite is in progress, before special/punct/join
		// dispatch runs — matching the original tokenizer's ordering.
		if hasLeadingWhitespace(text) && len(wip) > 0 {
			flush()
		}

		switch {
		case isSpecialToken(text):
			i++
			continue

		case isPunctuation(text):
			flush()
			out = append(out, models.NewTextWord([]models.SingleToken{{Text: text, Prob: msg.TokenProbs[i]}}, true))
			i++
			continue

		default:
			if join, numTokens := joiner.Join(msg.TokenTexts, i); join && numTokens > 1 {
				end := i + numTokens
				if end > n {
					end = n
				}
				combinedText, combinedProb := combine(msg.TokenTexts[i:end], msg.TokenProbs[i:end])
				wip = append(wip, models.SingleToken{Text: combinedText, Prob: combinedProb})
				i = end
				continue
			}

			wip = append(wip, models.SingleToken{Text: text, Prob: msg.TokenProbs[i]})
			i++
		}
	}

	flush()
	return out
}

func isSpecialToken(text string) bool {
	return specialTokenPattern.MatchString(text)
}

// isPunctuation reports whether text is made up entirely of punctuation or
// symbol runes (ignoring surrounding whitespace), and contains at least one
// such rune — a whitespace-only token is not punctuation.
func isPunctuation(text string) bool {
	found := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
		found = true
	}
	return found
}

// combine concatenates texts and computes the geometric mean of probs,
// avoiding the numerical collapse an arithmetic mean suffers over long
// joins.
func combine(texts []string, probs []float64) (string, float64) {
	var sb strings.Builder
	for _, t := range texts {
		sb.WriteString(t)
	}

	logSum := 0.0
	for _, p := range probs {
		if p <= 0 {
			return sb.String(), 0
		}
		logSum += math.Log(p)
	}
	return sb.String(), math.Exp(logSum / float64(len(probs)))
}

func hasLeadingWhitespace(text string) bool {
	if text == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsSpace(r)
}
