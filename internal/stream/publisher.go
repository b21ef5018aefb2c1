// Package stream publishes canonical events to a partitioned Kafka topic for
// downstream fan-out (storage conversion, real-time analytics, key-value
// indexing). Records are keyed by tenant so all events of one project land on
// the same ordered partition.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/pulseboard/ingestion-service/internal/config"
	"github.com/pulseboard/ingestion-service/internal/models"
)

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher writes canonical events to the destination stream. Safe for
// concurrent use; constructed once at process start.
type Publisher struct {
	writer  messageWriter
	brokers []string
	topic   string
}

// NewPublisher builds a synchronous Kafka writer for the configured stream.
// Writes are acknowledged before the HTTP response is sent, so the writer is
// deliberately not async.
func NewPublisher(cfg config.Config) (*Publisher, error) {
	if cfg.StreamName == "" {
		return nil, errors.New("stream name required")
	}

	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBrokers...),
		Topic:    cfg.StreamName,
		Balancer: &kafka.Hash{},

		BatchTimeout: time.Duration(cfg.KafkaBatchTimeoutMs) * time.Millisecond,
		RequiredAcks: parseAcks(cfg.KafkaRequiredAcks),
		MaxAttempts:  cfg.KafkaMaxAttempts,
		Compression:  parseCompression(cfg.KafkaCompression),
	}

	return &Publisher{writer: w, brokers: cfg.KafkaBrokers, topic: cfg.StreamName}, nil
}

// PartitionKey returns the stream partition key for an event. Events of one
// tenant always map to the same key.
func PartitionKey(ev models.Event) string {
	return ev.ProjectID
}

// Publish serializes the events and writes them to the stream in one batched
// call, keyed by tenant. An empty slice is a no-op success. On failure the
// returned error is a *PublishError carrying the per-record outcome.
func (p *Publisher) Publish(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	receivedAt := time.Now().UTC().Format(time.RFC3339Nano)
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(PartitionKey(ev)),
			Value: data,
			Headers: []kafka.Header{
				{Key: "eventId", Value: []byte(uuid.New().String())},
				{Key: "receivedAt", Value: []byte(receivedAt)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return newPublishError(len(msgs), err)
	}
	return nil
}

// Ping dials the first broker; used by the readiness endpoint.
func (p *Publisher) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker for %s: %w", p.topic, err)
	}
	return conn.Close()
}

// Close flushes and shuts down the underlying writer.
func (p *Publisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}

// PublishError reports the outcome of a failed publish call. Errs holds one
// entry per record when the broker reported per-record results; a nil entry
// means that record was written.
type PublishError struct {
	Succeeded int
	Failed    int
	Errs      []error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("stream publish: %d of %d records failed", e.Failed, e.Succeeded+e.Failed)
}

func (e *PublishError) Unwrap() []error {
	return e.Errs
}

// newPublishError decodes kafka-go's per-record write errors when available.
func newPublishError(total int, err error) *PublishError {
	var we kafka.WriteErrors
	if errors.As(err, &we) {
		pe := &PublishError{Errs: we}
		for _, e := range we {
			if e != nil {
				pe.Failed++
			} else {
				pe.Succeeded++
			}
		}
		return pe
	}
	return &PublishError{Failed: total, Errs: []error{err}}
}

func parseAcks(s string) kafka.RequiredAcks {
	switch strings.ToLower(s) {
	case "none":
		return kafka.RequireNone
	case "all":
		return kafka.RequireAll
	default:
		return kafka.RequireOne
	}
}

func parseCompression(s string) kafka.Compression {
	switch strings.ToLower(s) {
	case "", "none", "no", "off", "0":
		return kafka.Compression(0)
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Snappy
	}
}
