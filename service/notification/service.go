package notification

import (
	"context"
	"sync"
	"time"

	"github.com/viant/auditflow/internal/clock"
	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/service/dao/store"
)

// DefaultLimit matches the number of toasts the dashboard keeps.
const DefaultLimit = 50

type Service struct {
	mu    sync.Mutex
	store *store.MemoryStore[string, model.Notification]
	limit int
	now   func() time.Time
	newID func() string
}

func New(options ...Option) *Service {
	ret := &Service{
		store: store.NewMemoryStore[string, model.Notification](
			func(n *model.Notification) string { return n.ID },
			store.WithClone[string, model.Notification](func(n *model.Notification) *model.Notification {
				c := *n
				return &c
			}),
		),
		limit: DefaultLimit,
		now:   clock.Now,
		newID: idgen.New,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Notify appends a new entry and returns it.
func (s *Service) Notify(ctx context.Context, severity model.Severity, message string) (*model.Notification, error) {
	n := &model.Notification{
		ID:        s.newID(),
		Message:   message,
		Severity:  severity,
		Timestamp: s.now(),
	}
	if err := s.add(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Seed loads existing entries given newest first.
func (s *Service) Seed(ctx context.Context, items ...*model.Notification) error {
	for i := len(items) - 1; i >= 0; i-- {
		item := *items[i]
		if item.ID == "" {
			item.ID = s.newID()
		}
		if item.Severity == "" {
			item.Severity = model.SeverityInfo
		}
		if err := s.add(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) add(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, n); err != nil {
		return err
	}
	if s.limit <= 0 {
		return nil
	}
	for s.store.Len() > s.limit {
		items, err := s.store.List(ctx)
		if err != nil {
			return err
		}
		if err = s.store.Delete(ctx, items[len(items)-1].ID); err != nil {
			return err
		}
	}
	return nil
}

// List returns copies of the retained entries, newest first.
func (s *Service) List(ctx context.Context) ([]*model.Notification, error) {
	return s.store.List(ctx)
}

// Len returns the number of retained entries.
func (s *Service) Len() int {
	return s.store.Len()
}
