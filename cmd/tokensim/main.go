// Command tokensim drives the transcript manager's gRPC surface with
// synthetic or Google-derived token messages, standing in for the
// whisper.cpp-shaped inference engine the production service expects.
// -source selects the provider, mirroring the teacher's cfg.STTProvider
// selection at cmd/main.go's grpcapi.Register call site.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"speech-transcript-manager/internal/models"
	"speech-transcript-manager/internal/tokensource/google"
	"speech-transcript-manager/internal/tokensource/mock"
	grpcapi "speech-transcript-manager/internal/transport/grpc"
)

// wavHeaderSize, chunkSize and chunkIntervalMs mirror the teacher's
// audioclient: 8kHz 16-bit mono PCM, 100ms chunks at 1600 bytes/chunk.
const (
	wavHeaderSize   = 44
	chunkSize       = 1600
	chunkIntervalMs = 100
)

// tokenSource is the common pull interface both the synthetic and the
// Google-derived token sources satisfy.
type tokenSource interface {
	Next() (models.RawTokenMessage, bool)
}

// googleSource adapts google.Source's (msg, error) Next() to the tokenSource
// interface's (msg, ok) shape, treating any stream error (including a clean
// io.EOF once the audio file and recognizer session both close) as "done".
type googleSource struct{ src *google.Source }

func (g googleSource) Next() (models.RawTokenMessage, bool) {
	msg, err := g.src.Next()
	if err != nil {
		return models.RawTokenMessage{}, false
	}
	return msg, true
}

func main() {
	serverAddr := flag.String("server", "localhost:50051", "gRPC server address")
	inferDuration := flag.Duration("infer", 3*time.Second, "max duration to run the Infer request for after ingestion")
	sourceName := flag.String("source", "mock", "token source to drive ingestion from: mock|google")
	audioFile := flag.String("audio", "testdata/sample-8khz.wav", "WAV file to stream when -source=google (8kHz 16-bit mono PCM)")
	flag.Parse()

	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("connected to %s", *serverAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ingest, err := grpcapi.NewIngestTokensClient(ctx, conn)
	if err != nil {
		log.Fatalf("failed to open IngestTokens stream: %v", err)
	}

	src, closeSrc := newSource(ctx, *sourceName, *audioFile)
	defer closeSrc()

	var sent int
	for {
		msg, ok := src.Next()
		if !ok {
			break
		}

		batch := &grpcapi.TokenBatch{
			Stamp:      msg.Stamp,
			TokenTexts: msg.TokenTexts,
			TokenProbs: msg.TokenProbs,
		}
		if len(msg.SegmentStartTokenIdxs) > 0 {
			batch.SegmentStartTokenIdxs = msg.SegmentStartTokenIdxs
			batch.StartTimeUnits = msg.StartTimes
			batch.EndTimeUnits = msg.EndTimes
		}

		if err := ingest.Send(batch); err != nil {
			log.Fatalf("failed to send token batch: %v", err)
		}
		sent++
		time.Sleep(50 * time.Millisecond)
	}

	ack, err := ingest.CloseAndRecv()
	if err != nil {
		log.Fatalf("failed to close IngestTokens stream: %v", err)
	}
	log.Printf("sent %d token batches: accepted=%d rejected=%d", sent, ack.Accepted, ack.Rejected)

	inferCtx, inferCancel := context.WithTimeout(context.Background(), *inferDuration+time.Second)
	defer inferCancel()

	infer, err := grpcapi.NewInferClient(inferCtx, conn, &grpcapi.InferRequest{
		MaxDurationMs: inferDuration.Milliseconds(),
	})
	if err != nil {
		log.Fatalf("failed to open Infer stream: %v", err)
	}

	for {
		update, err := infer.Recv()
		if err != nil {
			log.Printf("infer stream ended: %v", err)
			return
		}
		if len(update.Words) > 0 {
			log.Printf("infer update: %v", update.Words)
		}
		if update.Done {
			log.Printf("infer done: status=%s", update.Status)
			return
		}
	}
}

// newSource builds the token source named by -source. For "google" it opens
// a streaming recognition session and starts a goroutine feeding it audioFile
// in real-time-paced chunks; the returned close func tears that session down.
func newSource(ctx context.Context, name, audioFile string) (tokenSource, func()) {
	switch name {
	case "google":
		gsrc, err := google.New(ctx, google.DefaultConfig())
		if err != nil {
			log.Fatalf("failed to create google speech source: %v", err)
		}
		if err := gsrc.Start(ctx); err != nil {
			log.Fatalf("failed to start google streaming session: %v", err)
		}
		go streamWAV(gsrc, audioFile)
		return googleSource{src: gsrc}, func() { _ = gsrc.Close() }
	case "mock":
		return mock.New(nil, time.Now()), func() {}
	default:
		log.Fatalf("unknown -source %q, want mock|google", name)
		return nil, func() {}
	}
}

// streamWAV reads audioFile's PCM payload (skipping the 44-byte WAV header)
// and forwards it to src in chunkSize/chunkIntervalMs-paced chunks, the same
// chunking the teacher's audioclient used to simulate real-time streaming.
func streamWAV(src *google.Source, audioFile string) {
	f, err := os.Open(audioFile)
	if err != nil {
		log.Fatalf("failed to open audio file: %v", err)
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		log.Fatalf("failed to read WAV header: %v", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		log.Fatal("not a valid WAV file")
	}

	chunk := make([]byte, chunkSize)
	for {
		n, readErr := f.Read(chunk)
		if n > 0 {
			if err := src.SendAudio(chunk[:n]); err != nil {
				log.Printf("failed to send audio chunk: %v", err)
				return
			}
		}
		if readErr == io.EOF {
			_ = src.Close()
			return
		}
		if readErr != nil {
			log.Printf("audio read error: %v", readErr)
			return
		}
		time.Sleep(chunkIntervalMs * time.Millisecond)
	}
}
