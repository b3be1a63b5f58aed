package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"pandora/internal/platform/kafka/producer"
	dErrors "pandora/pkg/domain-errors"
)

// KafkaSink publishes audit events to the Kafka stream. Keyed by userId so
// one subject's events stay ordered within a partition. The sink is
// write-only: queries go to the durable store the auditsink consumer feeds.
type KafkaSink struct {
	producer *producer.Producer
	topic    string
}

// NewKafkaSink creates a Kafka-backed audit sink.
func NewKafkaSink(p *producer.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.UserID),
		Value: value,
	})
}

func (s *KafkaSink) ListByUser(_ context.Context, _ string) ([]Event, error) {
	return nil, dErrors.New(dErrors.CodeUnavailable, "kafka sink is write-only; query the audit store")
}
