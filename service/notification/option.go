package notification

import "time"

type Option func(s *Service)

// WithLimit caps the number of retained entries; zero or less keeps all.
func WithLimit(limit int) Option {
	return func(s *Service) { s.limit = limit }
}

// WithNow overrides the timestamp source.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDFunc overrides the identifier source.
func WithIDFunc(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}
