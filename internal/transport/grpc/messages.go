package grpcapi

import (
	"time"

	"speech-transcript-manager/internal/models"
)

// TokenBatch is the wire shape of one IngestTokens stream message: a single
// overlapping inference window, JSON-encoded in place of a protobuf message.
type TokenBatch struct {
	Stamp                 time.Time
	TokenTexts            []string
	TokenProbs            []float64
	SegmentStartTokenIdxs []int
	StartTimeUnits        []int64
	EndTimeUnits          []int64
	InferenceDurationMs   int64
}

// toRawTokenMessage converts the wire batch into the internal message shape
// the validator and deserializer operate on.
func (b *TokenBatch) toRawTokenMessage() models.RawTokenMessage {
	return models.RawTokenMessage{
		Stamp:                 b.Stamp,
		TokenTexts:            b.TokenTexts,
		TokenProbs:            b.TokenProbs,
		SegmentStartTokenIdxs: b.SegmentStartTokenIdxs,
		StartTimes:            b.StartTimeUnits,
		EndTimes:              b.EndTimeUnits,
		InferenceDuration:     time.Duration(b.InferenceDurationMs) * time.Millisecond,
	}
}

// IngestAck closes an IngestTokens stream with a running accept/reject count.
type IngestAck struct {
	Accepted int
	Rejected int
}

// InferRequest opens an Infer long-running request. MaxDurationMs bounds how
// long the server will keep streaming incremental updates before it sends a
// terminal status on its own.
type InferRequest struct {
	MaxDurationMs int64
}

func (r *InferRequest) maxDuration() time.Duration {
	if r.MaxDurationMs <= 0 {
		return 0
	}
	return time.Duration(r.MaxDurationMs) * time.Millisecond
}

// InferUpdate is one message on the Infer response stream: either an
// incremental concatenation of the words a just-drained batch contributed,
// or (when Done) a terminal status carrying the reason the stream ended.
type InferUpdate struct {
	Words  []string
	Done   bool
	Status string
}

// Terminal status reasons for InferUpdate.Status.
const (
	StatusTimeout   = "timeout"
	StatusCancelled = "cancelled"
)
