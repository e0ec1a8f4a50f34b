package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/auditflow/internal/clock"
	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/service/dao/store"
	"github.com/viant/auditflow/service/messaging"
	"github.com/viant/auditflow/service/review"
)

type service struct {
	mu     sync.Mutex
	reqDAO *store.MemoryStore[string, review.Request]
	decDAO *store.MemoryStore[string, review.Decision]
	// request id -> decision id
	decided map[string]string
	events  messaging.Queue[review.Event]
	now     func() time.Time
}

func reqKey(r *review.Request) string  { return r.ID }
func decKey(d *review.Decision) string { return d.ID }

func New(options ...Option) review.Service {
	ret := &service{
		reqDAO: store.NewMemoryStore[string, review.Request](reqKey, store.WithClone[string, review.Request](func(r *review.Request) *review.Request {
			c := *r
			return &c
		})),
		decDAO: store.NewMemoryStore[string, review.Decision](decKey, store.WithClone[string, review.Decision](func(d *review.Decision) *review.Decision {
			c := *d
			return &c
		})),
		decided: make(map[string]string),
		now:     clock.Now,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) publish(ctx context.Context, topic string, data interface{}) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, &review.Event{Topic: topic, Data: data})
}

func (s *service) RequestReview(ctx context.Context, r *review.Request) error {
	if r == nil || r.ID == "" {
		return errors.New("invalid review request")
	}
	if r.NCARID == "" {
		return fmt.Errorf("review request %s: empty ncar id", r.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, err := s.pending(ctx)
	if err != nil {
		return err
	}
	for _, p := range pending {
		if p.NCARID == r.NCARID && p.ID != r.ID {
			if err = s.reqDAO.Delete(ctx, p.ID); err != nil {
				return err
			}
			s.publish(ctx, review.TopicRequestSuperseded, p)
		}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if err = s.reqDAO.Save(ctx, r); err != nil {
		return err
	}
	s.publish(ctx, review.TopicRequestCreated, r)
	return nil
}

func (s *service) pending(ctx context.Context) ([]*review.Request, error) {
	all, err := s.reqDAO.List(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]*review.Request, 0, len(all))
	for _, r := range all {
		if _, ok := s.decided[r.ID]; !ok {
			ret = append(ret, r)
		}
	}
	return ret, nil
}

func (s *service) ListPending(ctx context.Context) ([]*review.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending(ctx)
}

func (s *service) Decide(ctx context.Context, d *review.Decision) (*review.Decision, error) {
	if d == nil || d.RequestID == "" {
		return nil, errors.New("empty request id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	request, err := s.reqDAO.Load(ctx, d.RequestID)
	if err != nil {
		return nil, fmt.Errorf("review request %s: %w", d.RequestID, err)
	}
	if _, ok := s.decided[request.ID]; ok {
		return nil, fmt.Errorf("review request %s already decided", request.ID)
	}
	ret := *d
	ret.NCARID = request.NCARID
	if ret.ID == "" {
		ret.ID = idgen.New()
	}
	if ret.DecidedAt.IsZero() {
		ret.DecidedAt = s.now()
	}
	if err = s.decDAO.Save(ctx, &ret); err != nil {
		return nil, err
	}
	s.decided[request.ID] = ret.ID
	s.publish(ctx, review.TopicDecisionCreated, &ret)
	return &ret, nil
}

func (s *service) Decisions(ctx context.Context) ([]*review.Decision, error) {
	return s.decDAO.List(ctx)
}

func (s *service) Queue() messaging.Queue[review.Event] { return s.events }

var _ review.Service = (*service)(nil)
