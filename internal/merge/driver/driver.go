// Package driver runs the periodic merge cycle: drain the ring, align and
// plan each batch against the transcript, commit, prune, and publish.
package driver

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"speech-transcript-manager/internal/merge/align"
	"speech-transcript-manager/internal/merge/ingress"
	"speech-transcript-manager/internal/merge/planner"
	"speech-transcript-manager/internal/merge/transcript"
	"speech-transcript-manager/internal/models"
	"speech-transcript-manager/internal/observability/metrics"
	"speech-transcript-manager/internal/observability/tracing"
)

// DefaultInterval is the Driver's periodic tick cadence.
const DefaultInterval = time.Second

// ClearMistakesThreshold is the default aggressive-pruning threshold passed
// to Transcript.ClearMistakes after every non-empty cycle.
const ClearMistakesThreshold = -1

// Publisher is the narrow interface the Driver needs to emit a serialized
// transcript; internal/events.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, t models.AudioTranscript) error
}

// Driver owns the Transcript exclusively and periodically merges whatever
// the Ring has accumulated since the last tick.
type Driver struct {
	ring       *ingress.Ring
	consumer   *ingress.Consumer
	transcript *transcript.Transcript
	publisher  Publisher
	logger     zerolog.Logger

	gapBudget              int
	opts                   planner.Options
	interval               time.Duration
	clearMistakesThreshold int
}

// New builds a Driver. consumer enforces the Driver/Infer mutual-exclusion
// invariant over ring; opts carries the planner's open-question knobs.
// interval <= 0 falls back to DefaultInterval.
func New(ring *ingress.Ring, consumer *ingress.Consumer, store *transcript.Transcript, pub Publisher, gapBudget int, opts planner.Options, interval time.Duration, clearMistakesThreshold int, logger zerolog.Logger) *Driver {
	return &Driver{
		ring:                   ring,
		consumer:               consumer,
		transcript:             store,
		publisher:              pub,
		logger:                 logger.With().Str("component", "merge-driver").Logger(),
		gapBudget:              gapBudget,
		opts:                   opts,
		interval:               interval,
		clearMistakesThreshold: clearMistakesThreshold,
	}
}

// Run ticks at d.interval (or DefaultInterval if unset) until ctx is
// cancelled, merging and publishing once per non-empty cycle.
func (d *Driver) Run(ctx context.Context) {
	interval := d.interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// tick runs exactly one merge cycle. It is the unit boundary a planner
// invariant violation is recovered at: a panic during a single batch's
// merge drops that batch and logs at Error level instead of taking the
// whole process down.
func (d *Driver) tick(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, "merge.cycle")
	defer span.End()

	if err := d.consumer.Acquire(); err != nil {
		d.logger.Debug().Err(err).Msg("skipping cycle, ring owned by an active Infer request")
		return
	}
	defer d.consumer.Release()
	batches := d.ring.DrainAll()

	if len(batches) == 0 {
		return
	}
	span.SetAttributes(attribute.Int("merge.batches", len(batches)))

	start := time.Now()
	merged := false
	panicked := false
	for _, batch := range batches {
		if d.mergeOneSafely(batch) {
			merged = true
		} else {
			panicked = true
		}
	}
	metrics.DefaultMetrics.RecordMergeCycle(time.Since(start).Seconds(), panicked)
	metrics.DefaultMetrics.SetTranscriptLength(len(d.transcript.Entries()))

	if !merged {
		return
	}

	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, Serialize(d.transcript)); err != nil {
		d.logger.Error().Err(err).Msg("failed to publish transcript")
	}
}

// mergeOneSafely wraps MergeOne with panic recovery for a planner invariant
// violation (an anchor resolving to a segment, which by construction cannot
// occur). Recovering here trades "fatal for the whole process" for "fatal
// for this one batch" without an availability cost.
func (d *Driver) mergeOneSafely(newWords []models.Word) (merged bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Msg("planner invariant violation, dropping batch")
			merged = false
		}
	}()
	MergeOne(d.transcript, newWords, d.gapBudget, d.opts, d.clearMistakesThreshold)
	return true
}

// MergeOne runs one batch through the aligner and planner against store,
// then commits, clears mistakes, and advances the stale boundary. It
// implements the six scenarios from the testable-properties section:
// cold start and no-overlap both resolve to a plain PushBack.
func MergeOne(store *transcript.Transcript, newWords []models.Word, gapBudget int, opts planner.Options, clearMistakesThreshold int) {
	if store.Empty() {
		store.PushBack(newWords)
		return
	}

	staleID := store.GetStaleWordID()
	old := store.GetWordsSplice()

	compOld, skipOld := comparableProjection(old)
	compNew, skipNew := comparableProjection(newWords)

	indexA, indexB := align.Align(compOld, compNew, gapBudget)
	if len(indexA) == 0 {
		store.PushBack(newWords)
		return
	}

	ops := planner.Plan(opts, old, newWords, indexA, indexB, skipOld, skipNew)
	for _, op := range ops {
		metrics.DefaultMetrics.RecordPlannerOp(opKindLabel(op.Kind))
	}

	// ops index into `old` (the active tail), but Run expects indices into
	// the full entries slice; translate by the tail's absolute offset.
	offset := staleID
	translated := make([]models.EditOperation, len(ops))
	for i, op := range ops {
		translated[i] = op
		translated[i].A += offset
	}

	store.Run(translated, newWords)
	store.ClearMistakes(clearMistakesThreshold)

	next := planner.NextStaleWordID(staleID, indexA[0], indexB[0])
	store.SetStaleWordID(next)
}

// opKindLabel maps an EditOpKind to its Prometheus label value.
func opKindLabel(k models.EditOpKind) string {
	switch k {
	case models.OpMatchedWord:
		return "matched"
	case models.OpInsert:
		return "insert"
	case models.OpDecrement:
		return "decrement"
	case models.OpConflict:
		return "conflict"
	case models.OpMergeSegments:
		return "merge_segments"
	default:
		return "unknown"
	}
}

// comparableProjection returns the comparable-form projection of words (skipping
// segments and punctuation) plus the prefix-offset vector recording, for
// each comparable position, the count of skipped entries preceding it.
func comparableProjection(words []models.Word) (comparable []string, skip []int) {
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

// Serialize converts the store's current state into the wire output
// message, translating the stale boundary into word-index space.
func Serialize(store *transcript.Transcript) models.AudioTranscript {
	var out models.AudioTranscript
	segmentsBeforeStale := 0

	for i, e := range store.Entries() {
		if i < store.GetStaleWordID() && e.IsSegment() {
			segmentsBeforeStale++
		}
		if e.IsSegment() {
			out.SegStartWordsID = append(out.SegStartWordsID, len(out.Words))
			out.SegStartTime = append(out.SegStartTime, e.Start)
			out.SegDurationMs = append(out.SegDurationMs, e.Duration.Milliseconds())
			continue
		}
		out.Words = append(out.Words, e.Text)
		out.Probs = append(out.Probs, e.Prob())
		out.Occ = append(out.Occ, e.Occurrences)
	}

	out.ActiveIndex = store.GetStaleWordID() - segmentsBeforeStale
	return out
}
