package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Appender is the durable side of the pipeline, satisfied by the ledger
// stores.
type Appender interface {
	Append(ctx context.Context, entry Entry) error
}

// Stream is the optional downstream hand-off, satisfied by the Kafka
// producer. A nil Stream disables the hand-off.
type Stream interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// WorkerMetrics is the subset of ledger metrics the worker touches.
type WorkerMetrics interface {
	IncWritten(action string)
	IncPublishFailure()
	SetQueueDepth(n int)
}

// Worker drains the publisher inbox: every entry is appended to the store,
// then handed to the stream when one is configured. Failures are logged and
// counted; the worker never stops on a bad entry.
type Worker struct {
	inbox   <-chan Entry
	store   Appender
	stream  Stream
	logger  *slog.Logger
	metrics WorkerMetrics
}

// NewWorker builds a ledger worker. stream and metrics may be nil.
func NewWorker(inbox <-chan Entry, store Appender, stream Stream, logger *slog.Logger, metrics WorkerMetrics) *Worker {
	return &Worker{
		inbox:   inbox,
		store:   store,
		stream:  stream,
		logger:  logger,
		metrics: metrics,
	}
}

// Run consumes the inbox until the context is cancelled or the inbox closes.
// Remaining buffered entries are drained on a closed inbox so a graceful
// shutdown loses nothing already accepted.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.process(ctx, entry)
			if w.metrics != nil {
				w.metrics.SetQueueDepth(len(w.inbox))
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, entry Entry) {
	if err := w.store.Append(ctx, entry); err != nil {
		if w.metrics != nil {
			w.metrics.IncPublishFailure()
		}
		w.logger.Error("ledger append failed",
			"entry_id", entry.ID.String(),
			"action", string(entry.Action),
			"error", err.Error(),
		)
		return
	}
	if w.metrics != nil {
		w.metrics.IncWritten(string(entry.Action))
	}

	if w.stream == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		w.logger.Error("ledger entry marshal failed", "entry_id", entry.ID.String(), "error", err.Error())
		return
	}
	// Key by loop so per-loop ordering survives partitioning.
	if err := w.stream.Publish(ctx, entry.LoopID.String(), payload); err != nil {
		if w.metrics != nil {
			w.metrics.IncPublishFailure()
		}
		w.logger.Error("ledger stream publish failed",
			"entry_id", entry.ID.String(),
			"error", err.Error(),
		)
	}
}
