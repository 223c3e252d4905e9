// Package kafka provides the thin producer used to hand ledger records off to
// downstream consumers. The ledger's own database remains the local source of
// truth; Kafka delivery is best-effort and optional.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"revloop/internal/platform/config"
)

// Producer publishes records to a single topic.
type Producer struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewProducer connects to the configured brokers and ensures the topic exists.
// Returns nil if no brokers are configured (Kafka hand-off disabled).
func NewProducer(cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(context.Background(), 1, 1, nil, cfg.Topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure topic %q: %w", cfg.Topic, err)
	}
	for _, res := range resp {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			logger.Warn("topic creation reported error, continuing",
				"topic", res.Topic,
				"error", res.Err,
			)
		}
	}

	return &Producer{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Publish synchronously produces one record keyed for per-loop ordering.
func (p *Producer) Publish(ctx context.Context, key string, payload []byte) error {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: payload}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %q: %w", p.topic, err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (p *Producer) Close() {
	if p == nil {
		return
	}
	p.client.Close()
}
