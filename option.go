package auditflow

import (
	"log/slog"
	"time"

	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/service/fixture"
	"github.com/viant/auditflow/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Option func(s *Service)

// WithConfig sets the configuration; options applied later still override it.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPolicy sets the authorization policy, bypassing Config.Policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithEventService sets the event service; events are then enabled.
func WithEventService(service *event.Service) Option {
	return func(s *Service) { s.events = service }
}

// WithFixtures seeds from the supplied data instead of Config.Fixtures.
func WithFixtures(fixtures *fixture.Fixtures) Option {
	return func(s *Service) { s.fixtures = fixtures }
}

// WithTracing enables tracing with the stdout exporter. An empty outputFile
// writes to stdout.
func WithTracing(outputFile string) Option {
	return func(s *Service) {
		s.tracing = &tracing.Config{Enabled: true, Output: outputFile}
	}
}

// WithTracingExporter installs the supplied span exporter.
func WithTracingExporter(exporter sdktrace.SpanExporter) Option {
	return func(s *Service) { s.exporter = exporter }
}
