package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Schema generations supported by the ingest endpoints. Each deployment
// serves exactly one generation; variant dispatch is static per route.
const (
	GenerationCompact  = "compact"
	GenerationExpanded = "expanded"
)

// Config contains runtime configuration required by the service.
type Config struct {
	ListenAddr       string
	StreamName       string // destination Kafka topic
	KafkaBrokers     []string
	SchemaGeneration string
	JWTSecret        string // optional; enables signature verification

	KafkaRequiredAcks   string // none, one, all
	KafkaCompression    string // none, gzip, snappy, lz4, zstd
	KafkaBatchTimeoutMs int
	KafkaMaxAttempts    int
}

// Load reads required values from environment variables.
// The process refuses to start without STREAM_NAME.
func Load() (Config, error) {
	stream := strings.TrimSpace(os.Getenv("STREAM_NAME"))
	if stream == "" {
		return Config{}, errors.New("STREAM_NAME required")
	}

	gen := getenv("SCHEMA_GENERATION", GenerationCompact)
	if gen != GenerationCompact && gen != GenerationExpanded {
		return Config{}, fmt.Errorf("SCHEMA_GENERATION must be %q or %q", GenerationCompact, GenerationExpanded)
	}

	brokers := strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	if len(brokers) == 0 || brokers[0] == "" {
		return Config{}, errors.New("KAFKA_BROKERS must not be empty")
	}

	return Config{
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		StreamName:       stream,
		KafkaBrokers:     brokers,
		SchemaGeneration: gen,
		JWTSecret:        os.Getenv("JWT_SECRET"),

		KafkaRequiredAcks:   getenv("KAFKA_REQUIRED_ACKS", "one"),
		KafkaCompression:    getenv("KAFKA_COMPRESSION", "snappy"),
		KafkaBatchTimeoutMs: getenvInt("KAFKA_BATCH_TIMEOUT_MS", 5),
		KafkaMaxAttempts:    getenvInt("KAFKA_MAX_ATTEMPTS", 10),
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
