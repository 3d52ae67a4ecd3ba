package audit

import (
	"context"
	"log/slog"
)

// Worker drains audit events from a channel into a Publisher, decoupling
// emit sites from broker latency. The enrichment service writes to the inbox
// and continues; the worker absorbs publish time.
type Worker struct {
	publisher Publisher
	inbox     <-chan Event
	logger    *slog.Logger
}

func NewWorker(publisher Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

// Run consumes events until the context is cancelled. A failed publish is
// logged and dropped; the trail is best-effort and must never stall
// enrichment.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "audit publish failed",
					"run_id", event.RunID,
					"issuer_id", event.IssuerID,
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
