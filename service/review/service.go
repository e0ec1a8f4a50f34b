package review

import (
	"context"

	"github.com/viant/auditflow/service/messaging"
)

// Service defines the review ledger.
type Service interface {
	// RequestReview opens a request, superseding any pending request for the same NCAR.
	RequestReview(ctx context.Context, r *Request) error
	ListPending(ctx context.Context) ([]*Request, error)
	// Decide closes a pending request.
	Decide(ctx context.Context, d *Decision) (*Decision, error)
	// Decisions returns every decision, newest first.
	Decisions(ctx context.Context) ([]*Decision, error)
	// Queue returns the event queue, or nil when events are disabled.
	Queue() messaging.Queue[Event]
}
