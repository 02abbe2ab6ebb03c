package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"speech-transcript-manager/internal/app"
	"speech-transcript-manager/internal/config"
	"speech-transcript-manager/internal/events"
	httpapi "speech-transcript-manager/internal/http"
	"speech-transcript-manager/internal/merge/driver"
	"speech-transcript-manager/internal/merge/ingress"
	"speech-transcript-manager/internal/merge/planner"
	"speech-transcript-manager/internal/merge/transcript"
	"speech-transcript-manager/internal/observability"
	"speech-transcript-manager/internal/observability/tracing"
	grpcapi "speech-transcript-manager/internal/transport/grpc"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)

	shutdownTracing, err := tracing.Init(tracing.Config{ServiceName: cfg.Service.Principal})
	if err != nil {
		application.Logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	publisher := events.New(&events.Config{
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.Topic,
		Principal: cfg.Kafka.Principal,
		Enabled:   cfg.Kafka.Enabled,
	})
	defer publisher.Close()

	almostFullLogger := application.Logger.Sample(&zerolog.BurstSampler{Burst: 1, Period: time.Second})
	ring := ingress.New(cfg.Ring.Capacity, func() {
		almostFullLogger.Warn().Msg("ingress ring almost full")
	})
	consumer := &ingress.Consumer{}
	store := transcript.New()

	opts := planner.Options{
		ProcessPrefixBeforeFirstAnchor: cfg.Merge.ProcessPrefixBeforeFirstAnchor,
		DecrementOnConflict:            cfg.Merge.DecrementOnConflict,
	}

	mergeDriver := driver.New(ring, consumer, store, publisher, cfg.Aligner.GapBudget, opts,
		cfg.Merge.Interval, cfg.Merge.ClearMistakesThreshold, application.Logger)

	grpcServer := grpc.NewServer(grpc.ForceServerCodec(grpcapi.Codec))
	transcriptServer := grpcapi.NewServer(ring, consumer, store, cfg.Aligner.GapBudget, opts,
		cfg.Merge.ClearMistakesThreshold, application.Logger, cfg.Service.Principal)
	grpcapi.RegisterTranscriptServiceServer(grpcServer, transcriptServer)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("transcriptmanager.TranscriptService", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
	if err != nil {
		application.Logger.Fatal().Err(err).Msg("failed to listen")
	}

	router := httpapi.NewRouter(application, store)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Service.HTTPPort,
		Handler: router,
	}

	obsServer := observability.NewServer(":9090")

	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("failed to start application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		mergeDriver.Run(gctx)
		return nil
	})

	g.Go(func() error {
		application.Logger.Info().Str("port", cfg.Service.GRPCPort).Msg("gRPC server listening")
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		application.Logger.Info().Str("port", cfg.Service.HTTPPort).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	obsServer.Start()

	g.Go(func() error {
		<-gctx.Done()

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		_ = obsServer.Shutdown(shutdownCtx)
		_ = shutdownTracing(shutdownCtx)

		return nil
	})

	if err := g.Wait(); err != nil {
		application.Logger.Error().Err(err).Msg("service exited with error")
	}

	application.Shutdown()
	os.Exit(0)
}
