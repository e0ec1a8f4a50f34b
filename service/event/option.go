package event

import (
	"log/slog"

	"github.com/viant/auditflow/service/messaging/memory"
)

type Option func(s *Service)

// WithNewMemoryQueueConfig sets the per-queue memory configuration factory
func WithNewMemoryQueueConfig(newQueue func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newQueue
	}
}

// WithLogger sets the logger used by listeners
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
