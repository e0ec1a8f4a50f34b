package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/viant/auditflow/service/messaging"
	"github.com/viant/auditflow/service/messaging/memory"
)

// Service publishes workflow events onto a single feed read by the
// presentation adapter or an installed listener.
type Service struct {
	publisher         *Publisher[any]
	listener          *Listener[any]
	mux               *sync.Mutex
	memNewQueueConfig func(name string) memory.Config
	logger            *slog.Logger
}

// SetListener replaces the handler of the feed.
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start()
}

// Feed returns the feed publisher; Consume on it drains the feed.
func (s *Service) Feed() *Publisher[any] {
	return s.publisher
}

// Close stops the running listener.
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
}

func New(opts ...Option) *Service {
	ret := &Service{
		mux:    &sync.Mutex{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.memNewQueueConfig == nil {
		ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
	}
	ret.publisher = NewPublisher[any](QueueOf[Event[any]](ret, "feed"))
	return ret
}

func QueueOf[T any](s *Service, name string) messaging.Queue[T] {
	return memory.NewQueue[T](s.memNewQueueConfig(name))
}

// Publish emits data with the supplied context on the feed.
func Publish[T any](ctx context.Context, s *Service, eventContext *Context, data T) error {
	if s == nil {
		return nil
	}
	return s.publisher.Publish(ctx, NewEvent[any](eventContext, data))
}
