// Package google bridges cloud.google.com/go/speech streaming recognition
// into the RawTokenMessage shape the merge engine consumes. Adapted from the
// teacher's service/stt/google/adapter.go: the Start/SendAudio/Next/Close
// streaming shape survives, but each StreamingRecognizeResponse is now tokenized into
// a RawTokenMessage instead of dispatched through an OnPartial/OnFinal pair.
package google

import (
	"context"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"speech-transcript-manager/internal/models"
)

// Config configures the streaming recognition session. Mirrors the fields
// the teacher's adapter hardcoded, made overridable.
type Config struct {
	LanguageCode   string
	SampleRateHz   int32
	InterimResults bool
	AudioEncoding  string
}

// DefaultConfig matches the teacher adapter's hardcoded values.
func DefaultConfig() Config {
	return Config{
		LanguageCode:   "en-US",
		SampleRateHz:   8000,
		InterimResults: true,
		AudioEncoding:  "LINEAR16",
	}
}

func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	switch s {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}

// Source streams audio to Google Cloud Speech-to-Text and surfaces each
// interim or final result as a RawTokenMessage.
type Source struct {
	client *speech.Client
	stream speechpb.Speech_StreamingRecognizeClient
	cfg    Config
}

// New creates a Source. Requires GOOGLE_APPLICATION_CREDENTIALS to be set in
// the environment, exactly as the teacher adapter did.
func New(ctx context.Context, cfg Config) (*Source, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Source{client: c, cfg: cfg}, nil
}

// Start opens the streaming session and sends the initial recognition config.
func (s *Source) Start(ctx context.Context) error {
	stream, err := s.client.StreamingRecognize(ctx)
	if err != nil {
		return err
	}
	s.stream = stream

	return stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        parseAudioEncoding(s.cfg.AudioEncoding),
					SampleRateHertz: s.cfg.SampleRateHz,
					LanguageCode:    s.cfg.LanguageCode,
				},
				InterimResults: s.cfg.InterimResults,
			},
		},
	})
}

// SendAudio forwards one chunk of PCM audio to the recognizer.
func (s *Source) SendAudio(audio []byte) error {
	return s.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

// Close ends the streaming session.
func (s *Source) Close() error {
	if s.stream == nil {
		return nil
	}
	return s.stream.CloseSend()
}

// Next blocks for the next recognizer response and converts its top
// alternative into a RawTokenMessage via naive whitespace tokenization, with
// per-token probability derived from the alternative's overall confidence.
// Returns io.EOF-wrapped errors from the underlying stream unchanged.
func (s *Source) Next() (models.RawTokenMessage, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return models.RawTokenMessage{}, err
		}

		for _, r := range resp.Results {
			if len(r.Alternatives) == 0 {
				continue
			}
			alt := r.Alternatives[0]
			msg := tokenize(alt.Transcript, float64(alt.Confidence), time.Now())
			if r.IsFinal {
				msg.SegmentStartTokenIdxs = []int{0}
				msg.StartTimes = []int64{0}
				msg.EndTimes = []int64{int64(len(msg.TokenTexts)) * 20}
			}
			return msg, nil
		}
	}
}

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
