package ledger

import (
	"context"
	"log/slog"
	"time"

	"revloop/pkg/domain"
)

// DefaultInboxSize bounds the publisher buffer. The ledger is best-effort:
// when the buffer is full, new entries are dropped and counted rather than
// blocking the loop's request path.
const DefaultInboxSize = 256

// PublisherMetrics is the subset of ledger metrics the publisher touches.
type PublisherMetrics interface {
	IncDropped()
	SetQueueDepth(n int)
}

// Publisher accepts entries from the loop service and buffers them for the
// worker. Emit never blocks.
type Publisher struct {
	inbox   chan Entry
	logger  *slog.Logger
	metrics PublisherMetrics
	clock   func() time.Time
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithInboxSize overrides the buffer size.
func WithInboxSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.inbox = make(chan Entry, n)
		}
	}
}

// WithPublisherMetrics attaches metrics.
func WithPublisherMetrics(m PublisherMetrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

// WithPublisherClock injects a clock for tests.
func WithPublisherClock(clock func() time.Time) PublisherOption {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewPublisher builds a buffered ledger publisher.
func NewPublisher(logger *slog.Logger, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		inbox:  make(chan Entry, DefaultInboxSize),
		logger: logger,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps the entry and hands it to the worker. When the inbox is full
// the entry is dropped: the loop snapshot remains the source of truth and a
// slow ledger must never stall a capture.
func (p *Publisher) Emit(ctx context.Context, entry Entry) {
	entry.ID = domain.NewLedgerEntryID()
	entry.Timestamp = p.clock().UTC()

	select {
	case p.inbox <- entry:
		if p.metrics != nil {
			p.metrics.SetQueueDepth(len(p.inbox))
		}
	default:
		if p.metrics != nil {
			p.metrics.IncDropped()
		}
		p.logger.Warn("ledger inbox full, entry dropped",
			"action", string(entry.Action),
			"loop_id", entry.LoopID.String(),
		)
	}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Entry {
	return p.inbox
}

// Close stops accepting entries. Call only after the loop service has shut
// down.
func (p *Publisher) Close() {
	close(p.inbox)
}
