// Package config loads the service's runtime configuration from the
// environment, with typed defaults and graceful fallback on a parse error.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the fully-resolved runtime configuration.
type Config struct {
	Service       ServiceConfig
	Ring          RingConfig
	Aligner       AlignerConfig
	Merge         MergeConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig names the process and its transport.
type ServiceConfig struct {
	Principal string
	GRPCPort  string
	HTTPPort  string
}

// RingConfig sizes the ingress ring.
type RingConfig struct {
	Capacity int
}

// AlignerConfig parameterizes the LCS-with-gaps aligner.
type AlignerConfig struct {
	GapBudget int
}

// MergeConfig parameterizes the Merge Driver and Planner, including the two
// open-question knobs documented in DESIGN.md.
type MergeConfig struct {
	Interval                       time.Duration
	ClearMistakesThreshold         int
	ProcessPrefixBeforeFirstAnchor bool
	DecrementOnConflict            bool
}

// KafkaConfig configures the transcript publisher. Principal falls back to
// Service.Principal when unset.
type KafkaConfig struct {
	Brokers   []string
	Topic     string
	Principal string
	Enabled   bool
}

// ObservabilityConfig configures logging verbosity.
type ObservabilityConfig struct {
	LogLevel string
}

// Load reads configuration from the environment, falling back to defaults
// for unset or unparsable values.
func Load() *Config {
	servicePrincipal := envOrDefault("SERVICE_PRINCIPAL", "svc-transcript-manager")

	cfg := &Config{
		Service: ServiceConfig{
			Principal: servicePrincipal,
			GRPCPort:  envOrDefault("GRPC_PORT", "50051"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		Ring: RingConfig{
			Capacity: envOrDefaultInt("RING_CAPACITY", 10),
		},
		Aligner: AlignerConfig{
			GapBudget: envOrDefaultInt("ALIGNER_GAP_BUDGET", 4),
		},
		Merge: MergeConfig{
			Interval:                       envOrDefaultDuration("MERGE_INTERVAL", time.Second),
			ClearMistakesThreshold:         envOrDefaultInt("MERGE_CLEAR_MISTAKES_THRESHOLD", -1),
			ProcessPrefixBeforeFirstAnchor: envOrDefaultBool("MERGE_PROCESS_PREFIX_BEFORE_FIRST_ANCHOR", false),
			DecrementOnConflict:            envOrDefaultBool("MERGE_DECREMENT_ON_CONFLICT", false),
		},
		Kafka: KafkaConfig{
			Brokers:   envOrDefaultList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:     envOrDefault("KAFKA_TOPIC", "transcript.updates"),
			Principal: envOrDefault("KAFKA_PRINCIPAL", servicePrincipal),
			Enabled:   envOrDefaultBool("KAFKA_ENABLED", true),
		},
		Observability: ObservabilityConfig{
			LogLevel: envOrDefault("LOG_LEVEL", "info"),
		},
	}

	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return parsed
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return parsed
}
