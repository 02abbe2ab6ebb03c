// Package events provides transcript publishing to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"speech-transcript-manager/internal/models"
	"speech-transcript-manager/internal/observability/metrics"
)

// Publisher publishes serialized transcripts to a single Kafka topic. It
// satisfies driver.Publisher.
type Publisher struct {
	writer    *kafka.Writer
	principal string
	topic     string
	enabled   bool
	metrics   *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers   []string
	Topic     string
	Principal string
	Enabled   bool
}

// New creates a new Kafka transcript publisher. With Kafka disabled (or no
// brokers configured), Publish logs the would-be payload and returns nil.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{enabled: false, metrics: m}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal: cfg.Principal,
			topic:     cfg.Topic,
			enabled:   false,
			metrics:   m,
		}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{Dial: dialer.DialFunc}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writer:    writer,
		principal: cfg.Principal,
		topic:     cfg.Topic,
		enabled:   true,
		metrics:   m,
	}
}

// Publish writes the serialized transcript to Kafka with the principal as the
// message key. The writer's LeastBytes balancer picks the partition by load,
// not by key, so one stream's updates are not pinned to a single partition.
func (p *Publisher) Publish(ctx context.Context, transcript models.AudioTranscript) error {
	start := time.Now()

	payload, err := json.Marshal(transcript)
	if err != nil {
		log.Error().Err(err).Str("topic", p.topic).Msg("failed to marshal transcript")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", p.topic).
		RawJSON("payload", payload).
		Msg("publishing transcript")

	if !p.enabled || p.writer == nil {
		p.metrics.RecordPublish(p.topic, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(p.principal),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", p.topic).Msg("failed to write to Kafka")
		p.metrics.RecordPublish(p.topic, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordPublish(p.topic, nil, time.Since(start).Seconds())
	return nil
}

// Close closes the Kafka writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		log.Error().Err(err).Msg("error closing Kafka writer")
		return err
	}
	return nil
}
