package grpcapi

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"speech-transcript-manager/internal/merge/deserialize"
	"speech-transcript-manager/internal/merge/driver"
	"speech-transcript-manager/internal/merge/ingress"
	"speech-transcript-manager/internal/merge/planner"
	"speech-transcript-manager/internal/merge/transcript"
	"speech-transcript-manager/internal/merge/validate"
	"speech-transcript-manager/internal/models"
	"speech-transcript-manager/internal/observability/logging"
	"speech-transcript-manager/internal/observability/metrics"
	"speech-transcript-manager/internal/service/segment"
)

// pollInterval is how often an active Infer call checks for cancellation or
// expiry, matching the original transcript_manager_node.cpp on_inference_accepted_
// loop's cadence.
const pollInterval = 15 * time.Millisecond

// Server implements TranscriptServiceServer. IngestTokens only ever touches
// the Ring; Infer is the one producer-facing path allowed to merge into the
// shared Transcript, and only while it holds the Consumer lock.
type Server struct {
	ring                   *ingress.Ring
	consumer               *ingress.Consumer
	store                  *transcript.Transcript
	gapBudget              int
	opts                   planner.Options
	clearMistakesThreshold int
	logger                 zerolog.Logger
	metrics                *metrics.Metrics
	requests               *segment.Generator
	principal              string
}

// NewServer builds a Server wired to the shared Ring, Consumer lock, and
// Transcript store the Merge Driver also operates on. principal identifies
// this service in generated Infer request IDs.
func NewServer(ring *ingress.Ring, consumer *ingress.Consumer, store *transcript.Transcript, gapBudget int, opts planner.Options, clearMistakesThreshold int, logger zerolog.Logger, principal string) *Server {
	return &Server{
		ring:                   ring,
		consumer:               consumer,
		store:                  store,
		gapBudget:              gapBudget,
		opts:                   opts,
		clearMistakesThreshold: clearMistakesThreshold,
		logger:                 logger.With().Str("component", "grpc-transport").Logger(),
		metrics:                metrics.DefaultMetrics,
		requests:               segment.New(),
		principal:              principal,
	}
}

// IngestTokens validates and deserializes each inbound batch, enqueuing the
// result onto the Ring. It never touches the Transcript.
func (s *Server) IngestTokens(stream TranscriptService_IngestTokensServer) error {
	start := time.Now()
	s.metrics.RecordStreamStart()

	var accepted, rejected int
	joiner := deserialize.NoopJoiner{}

	for {
		batch, err := stream.Recv()
		if err == io.EOF {
			s.metrics.RecordStreamEnd(true, time.Since(start).Seconds())
			return stream.SendAndClose(&IngestAck{Accepted: accepted, Rejected: rejected})
		}
		if err != nil {
			s.metrics.RecordStreamEnd(false, time.Since(start).Seconds())
			return err
		}

		msg := batch.toRawTokenMessage()
		if err := validate.Message(msg); err != nil {
			rejected++
			s.metrics.RecordIngress(false, 0)
			s.logger.Warn().Err(err).Msg("discarding malformed token message")
			continue
		}

		words := deserialize.Deserialize(msg, joiner)
		s.ring.Enqueue(words)
		accepted++
		s.metrics.RecordIngress(true, len(msg.TokenTexts))
	}
}

// Infer is the long-running inference action surface: it takes over the
// Consumer lock for its duration, merging whatever the Ring accumulates and
// streaming back each batch's words as they land, until the request's
// MaxDuration elapses or the client cancels.
func (s *Server) Infer(req *InferRequest, stream TranscriptService_InferServer) error {
	s.metrics.RecordInferStart()
	defer s.metrics.RecordInferEnd()

	if err := s.consumer.Acquire(); err != nil {
		return err
	}
	defer s.consumer.Release()

	requestID := s.requests.Next(s.principal)
	lc := segment.NewLifecycle(requestID)
	log := logging.WithRequest(s.logger, requestID)
	log.Debug().Msg("infer request accepted")

	ctx := stream.Context()
	var deadline <-chan time.Time
	if d := req.maxDuration(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		for _, batch := range s.ring.DrainAll() {
			words := mergeAndDescribe(s.store, batch, s.gapBudget, s.opts, s.clearMistakesThreshold)
			if len(words) == 0 {
				continue
			}
			if err := lc.EmitUpdate(); err != nil {
				log.Error().Err(err).Msg("unexpected lifecycle state while streaming update")
				continue
			}
			if err := stream.Send(&InferUpdate{Words: words}); err != nil {
				lc.Drop()
				return err
			}
		}

		select {
		case <-ctx.Done():
			lc.EmitFinal()
			lc.Close()
			return stream.Send(&InferUpdate{Done: true, Status: StatusCancelled})
		case <-deadline:
			lc.EmitFinal()
			lc.Close()
			return stream.Send(&InferUpdate{Done: true, Status: StatusTimeout})
		case <-time.After(pollInterval):
		}
	}
}

// mergeAndDescribe merges one drained batch into store (recovering from any
// planner invariant violation the way the Driver does) and returns the
// batch's own non-segment words as the Infer stream's incremental preview.
func mergeAndDescribe(store *transcript.Transcript, batch []models.Word, gapBudget int, opts planner.Options, clearMistakesThreshold int) []string {
	safeMerge(store, batch, gapBudget, opts, clearMistakesThreshold)

	words := make([]string, 0, len(batch))
	for _, w := range batch {
		if w.IsSegment() {
			continue
		}
		words = append(words, w.Text)
	}
	return words
}

func safeMerge(store *transcript.Transcript, batch []models.Word, gapBudget int, opts planner.Options, clearMistakesThreshold int) {
	defer func() { _ = recover() }()
	driver.MergeOne(store, batch, gapBudget, opts, clearMistakesThreshold)
}
