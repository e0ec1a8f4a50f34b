package memory

import (
	"time"

	"github.com/viant/auditflow/service/messaging"
	"github.com/viant/auditflow/service/review"
)

type Option func(*service)

// WithQueue enables review events on the supplied queue.
func WithQueue(q messaging.Queue[review.Event]) Option {
	return func(s *service) { s.events = q }
}

// WithNow overrides the decision timestamp source.
func WithNow(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}
