package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-impact-etl/internal/config"
	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/couchcryptid/storm-impact-etl/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// aggregateMessage is the JSON value of one published aggregate row.
type aggregateMessage struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	domain.ImpactAggregate
}

// Writer publishes aggregate rows to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured aggregate topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// Name identifies the sink in logs.
func (w *Writer) Name() string { return "kafka" }

// Publish writes one message per aggregate row in a single WriteMessages
// call. Messages are keyed by group so a compacted topic keeps the latest
// row per group.
func (w *Writer) Publish(ctx context.Context, s domain.Summary) error {
	if len(s.Aggregates) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(s.Aggregates))
	for i := range s.Aggregates {
		msg, err := serializeToMessage(s, s.Aggregates[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish aggregates: %w", err)
	}
	w.metrics.AggregatesPublished.Add(float64(len(msgs)))
	w.logger.Info("aggregates published", "topic", w.writer.Topic, "count", len(msgs), "run_id", s.RunID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one aggregate row into a Kafka message.
func serializeToMessage(s domain.Summary, agg domain.ImpactAggregate) (kafkago.Message, error) {
	data, err := json.Marshal(aggregateMessage{
		RunID:           s.RunID,
		GeneratedAt:     s.GeneratedAt,
		Source:          s.Source,
		ImpactAggregate: agg,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize aggregate: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(agg.Group),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(s.RunID)},
			{Key: "generated_at", Value: []byte(s.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
