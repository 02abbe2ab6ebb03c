package google

import (
	"testing"
	"time"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.LanguageCode)
	}
	if cfg.SampleRateHz != 8000 {
		t.Errorf("expected default sample rate 8000, got %d", cfg.SampleRateHz)
	}
	if !cfg.InterimResults {
		t.Error("expected default interim results true")
	}
	if cfg.AudioEncoding != "LINEAR16" {
		t.Errorf("expected default encoding 'LINEAR16', got %s", cfg.AudioEncoding)
	}
}

func TestParseAudioEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected speechpb.RecognitionConfig_AudioEncoding
	}{
		{"LINEAR16", speechpb.RecognitionConfig_LINEAR16},
		{"MULAW", speechpb.RecognitionConfig_MULAW},
		{"FLAC", speechpb.RecognitionConfig_FLAC},
		{"AMR", speechpb.RecognitionConfig_AMR},
		{"AMR_WB", speechpb.RecognitionConfig_AMR_WB},
		{"OGG_OPUS", speechpb.RecognitionConfig_OGG_OPUS},
		{"SPEEX_WITH_HEADER_BYTE", speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE},
		{"WEBM_OPUS", speechpb.RecognitionConfig_WEBM_OPUS},
		{"unknown", speechpb.RecognitionConfig_LINEAR16},
		{"", speechpb.RecognitionConfig_LINEAR16},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseAudioEncoding(tt.input); got != tt.expected {
				t.Errorf("parseAudioEncoding(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	msg := tokenize("hello there world", 0.8, time.Now())
	if len(msg.TokenTexts) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(msg.TokenTexts))
	}
	if msg.TokenTexts[0] != "hello" || msg.TokenTexts[1] != " there" || msg.TokenTexts[2] != " world" {
		t.Errorf("unexpected token texts: %#v", msg.TokenTexts)
	}
	for _, p := range msg.TokenProbs {
		if p != 0.8 {
			t.Errorf("expected uniform probability 0.8, got %v", msg.TokenProbs)
		}
	}
}

func TestTokenize_FinalSegmentMarkersSetByCaller(t *testing.T) {
	msg := tokenize("a b", 0.9, time.Now())
	if len(msg.SegmentStartTokenIdxs) != 0 {
		t.Error("tokenize itself should never set segment markers; Next does that for final results")
	}
}
