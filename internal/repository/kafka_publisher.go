package repository

import (
	"context"

	domrepo "StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Predictions and training
// summaries are published keyed by ticker so downstream consumers see one
// partition per ticker.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	return p.producer.Publish(ctx, p.topic, []byte(key), value)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher is used when Kafka is disabled in config.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }
func (NopPublisher) Close() error                                                     { return nil }
