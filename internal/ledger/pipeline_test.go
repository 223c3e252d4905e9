package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloop/pkg/domain"
)

type fakeAppender struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (f *fakeAppender) Append(_ context.Context, entry Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAppender) all() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Entry(nil), f.entries...)
}

type fakeStream struct {
	mu       sync.Mutex
	keys     []string
	payloads [][]byte
	err      error
}

func (f *fakeStream) Publish(_ context.Context, key string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.payloads = append(f.payloads, payload)
	return nil
}

type countingMetrics struct {
	mu       sync.Mutex
	written  map[string]int
	dropped  int
	failures int
	depth    int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{written: map[string]int{}}
}

func (c *countingMetrics) IncWritten(action string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written[action]++
}

func (c *countingMetrics) IncDropped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropped++
}

func (c *countingMetrics) IncPublishFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
}

func (c *countingMetrics) SetQueueDepth(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth = n
}

// runWorker drains the publisher's inbox to completion: the publisher is
// closed first so Run returns once everything buffered has been processed.
func runWorker(t *testing.T, pub *Publisher, w *Worker) {
	t.Helper()
	pub.Close()
	require.NoError(t, w.Run(context.Background()))
}

func TestEmitStampsIdentityAndTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	pub := NewPublisher(slog.New(slog.DiscardHandler),
		WithPublisherClock(func() time.Time { return now }),
	)

	pub.Emit(context.Background(), Entry{Action: ActionLoopStarted, LoopID: domain.NewLoopID()})

	entry := <-pub.Inbox()
	assert.False(t, entry.ID.IsNil())
	assert.Equal(t, now, entry.Timestamp)
}

func TestPipelineDeliversEntriesInOrder(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pub := NewPublisher(logger)
	appender := &fakeAppender{}
	metrics := newCountingMetrics()
	worker := NewWorker(pub.Inbox(), appender, nil, logger, metrics)

	loopID := domain.NewLoopID()
	pub.Emit(context.Background(), Entry{Action: ActionLoopStarted, LoopID: loopID})
	pub.Emit(context.Background(), Entry{Action: ActionObjectionCaptured, LoopID: loopID, Category: "price_resistance"})
	pub.Emit(context.Background(), Entry{Action: ActionIterationCompleted, LoopID: loopID, Delta: 1.0})

	runWorker(t, pub, worker)

	entries := appender.all()
	require.Len(t, entries, 3)
	assert.Equal(t, ActionLoopStarted, entries[0].Action)
	assert.Equal(t, ActionObjectionCaptured, entries[1].Action)
	assert.Equal(t, ActionIterationCompleted, entries[2].Action)
	assert.Equal(t, 1, metrics.written[string(ActionLoopStarted)])
	assert.Equal(t, 1, metrics.written[string(ActionObjectionCaptured)])
}

func TestEmitDropsWhenInboxFull(t *testing.T) {
	metrics := newCountingMetrics()
	pub := NewPublisher(slog.New(slog.DiscardHandler),
		WithInboxSize(1),
		WithPublisherMetrics(metrics),
	)

	pub.Emit(context.Background(), Entry{Action: ActionLoopStarted})
	pub.Emit(context.Background(), Entry{Action: ActionObjectionCaptured})
	pub.Emit(context.Background(), Entry{Action: ActionObjectionCaptured})

	assert.Equal(t, 2, metrics.dropped)
	assert.Len(t, pub.Inbox(), 1)
}

func TestWorkerPublishesToStreamKeyedByLoop(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pub := NewPublisher(logger)
	appender := &fakeAppender{}
	stream := &fakeStream{}
	worker := NewWorker(pub.Inbox(), appender, stream, logger, nil)

	loopID := domain.NewLoopID()
	pub.Emit(context.Background(), Entry{Action: ActionPatchApplied, LoopID: loopID, Category: "trust_deficit"})

	runWorker(t, pub, worker)

	require.Len(t, stream.keys, 1)
	assert.Equal(t, loopID.String(), stream.keys[0])

	var decoded Entry
	require.NoError(t, json.Unmarshal(stream.payloads[0], &decoded))
	assert.Equal(t, ActionPatchApplied, decoded.Action)
	assert.Equal(t, "trust_deficit", decoded.Category)
}

func TestWorkerSkipsStreamWhenAppendFails(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pub := NewPublisher(logger)
	appender := &fakeAppender{err: errors.New("disk full")}
	stream := &fakeStream{}
	metrics := newCountingMetrics()
	worker := NewWorker(pub.Inbox(), appender, stream, logger, metrics)

	pub.Emit(context.Background(), Entry{Action: ActionPatchApplied, LoopID: domain.NewLoopID()})

	runWorker(t, pub, worker)

	assert.Empty(t, stream.keys, "a failed append must not reach the stream")
	assert.Equal(t, 1, metrics.failures)
}

func TestWorkerSurvivesStreamFailure(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pub := NewPublisher(logger)
	appender := &fakeAppender{}
	stream := &fakeStream{err: errors.New("broker down")}
	metrics := newCountingMetrics()
	worker := NewWorker(pub.Inbox(), appender, stream, logger, metrics)

	pub.Emit(context.Background(), Entry{Action: ActionPatchBlocked, LoopID: domain.NewLoopID()})
	pub.Emit(context.Background(), Entry{Action: ActionPatchApplied, LoopID: domain.NewLoopID()})

	runWorker(t, pub, worker)

	assert.Len(t, appender.all(), 2, "the store write stands even when the stream fails")
	assert.Equal(t, 2, metrics.failures)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pub := NewPublisher(logger)
	worker := NewWorker(pub.Inbox(), &fakeAppender{}, nil, logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
