package grpcapi

import (
	"github.com/rs/zerolog"

	"speech-transcript-manager/internal/merge/deserialize"
	"speech-transcript-manager/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func mustDeserializeSample() []models.Word {
	msg := models.RawTokenMessage{
		TokenTexts:            []string{"hi", " there"},
		TokenProbs:            []float64{0.9, 0.8},
		SegmentStartTokenIdxs: []int{0},
		StartTimes:            []int64{0},
		EndTimes:              []int64{10},
	}
	return deserialize.Deserialize(msg, deserialize.NoopJoiner{})
}
