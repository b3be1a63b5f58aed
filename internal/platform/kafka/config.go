// Package kafka holds shared configuration and health checking for the audit
// event stream. The core produces decision/lifecycle events; the auditsink
// binary consumes and persists them.
package kafka

import "time"

// ProducerConfig holds configuration for the audit event producer.
type ProducerConfig struct {
	Brokers         string
	Topic           string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// ConsumerConfig holds configuration for the audit sink consumer.
type ConsumerConfig struct {
	Brokers         string
	GroupID         string
	Topic           string
	AutoOffsetReset string
}

// DefaultProducerConfig returns sensible defaults for production use.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Topic:           "pandora.audit.events",
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 30 * time.Second,
	}
}

// DefaultConsumerConfig returns sensible defaults for production use.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Topic:           "pandora.audit.events",
		GroupID:         "pandora-auditsink",
		AutoOffsetReset: "earliest",
	}
}
