//go:build integration

package kafka

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"revloop/internal/platform/config"
	"revloop/pkg/testutil/containers"
)

func TestProducerPublishesKeyedRecords(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	t.Cleanup(func() { rp.Terminate(context.Background()) })

	logger := slog.New(slog.DiscardHandler)
	producer, err := NewProducer(config.KafkaConfig{
		Brokers: []string{rp.Broker},
		Topic:   "revloop.ledger",
	}, logger)
	require.NoError(t, err)
	require.NotNil(t, producer)
	t.Cleanup(producer.Close)

	ctx := context.Background()
	require.NoError(t, producer.Publish(ctx, "loop-1", []byte(`{"action":"loop_started"}`)))
	require.NoError(t, producer.Publish(ctx, "loop-1", []byte(`{"action":"objection_captured"}`)))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics("revloop.ledger"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var records []*kgo.Record
	for len(records) < 2 {
		fetches := consumer.PollFetches(fetchCtx)
		require.NoError(t, fetches.Err())
		records = append(records, fetches.Records()...)
	}

	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "loop-1", string(record.Key))
	}
	assert.JSONEq(t, `{"action":"loop_started"}`, string(records[0].Value))
}

func TestNewProducerDisabledWithoutBrokers(t *testing.T) {
	producer, err := NewProducer(config.KafkaConfig{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Nil(t, producer)
}
