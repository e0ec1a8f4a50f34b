package review

import (
	"context"
	"fmt"
	"time"
)

// PendingFilter narrows ListPending results.
type PendingFilter func(*Request) bool

// WithNCARID matches requests for the given NCAR.
func WithNCARID(id string) PendingFilter {
	return func(r *Request) bool { return r.NCARID == id }
}

// ListPending returns pending requests accepted by every filter.
func ListPending(ctx context.Context, svc Service, filters ...PendingFilter) ([]*Request, error) {
	all, err := svc.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	var ret []*Request
outer:
	for _, r := range all {
		for _, filter := range filters {
			if !filter(r) {
				continue outer
			}
		}
		ret = append(ret, r)
	}
	return ret, nil
}

// DecisionsFor returns the decisions recorded for an NCAR, newest first.
func DecisionsFor(ctx context.Context, svc Service, ncarID string) ([]*Decision, error) {
	all, err := svc.Decisions(ctx)
	if err != nil {
		return nil, err
	}
	var ret []*Decision
	for _, d := range all {
		if d.NCARID == ncarID {
			ret = append(ret, d)
		}
	}
	return ret, nil
}

// WaitForDecision blocks until a decision for requestID is published on the
// service queue or timeout elapses.
func WaitForDecision(ctx context.Context, svc Service, requestID string, timeout time.Duration) (*Decision, error) {
	queue := svc.Queue()
	if queue == nil {
		return nil, fmt.Errorf("review events are disabled")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		msg, err := queue.Consume(ctx)
		if err != nil {
			return nil, fmt.Errorf("waiting for decision on %s: %w", requestID, err)
		}
		_ = msg.Ack()
		evt := msg.T()
		if evt.Topic != TopicDecisionCreated {
			continue
		}
		if d, ok := evt.Data.(*Decision); ok && d.RequestID == requestID {
			return d, nil
		}
	}
}
