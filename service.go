package auditflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/auditflow/internal/clock"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/service/fixture"
	"github.com/viant/auditflow/service/messaging/memory"
	"github.com/viant/auditflow/service/notification"
	"github.com/viant/auditflow/service/review"
	reviewmem "github.com/viant/auditflow/service/review/memory"
	"github.com/viant/auditflow/service/workflow"
	"github.com/viant/auditflow/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serviceName    = "auditflow"
	serviceVersion = "0.1.0"
)

// Service is the tracker facade.
type Service struct {
	config   *Config
	logger   *slog.Logger
	now      func() time.Time
	policy   *policy.Policy
	events   *event.Service
	fixtures *fixture.Fixtures
	tracing  *tracing.Config
	exporter sdktrace.SpanExporter

	notifier *notification.Service
	reviews  review.Service
	engine   *workflow.Service
}

// New wires and seeds a tracker.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = clock.Now
	}
	if s.tracing == nil {
		s.tracing = &s.config.Tracing
	}
	if err := tracing.Setup(s.tracing, serviceName, serviceVersion); err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	if err := tracing.InitWithExporter(serviceName, serviceVersion, s.exporter); err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	if s.policy == nil {
		p, err := policy.New(s.config.Policy)
		if err != nil {
			return err
		}
		s.policy = p
	}
	queueConfig := memory.DefaultConfig()
	if s.config.Events.QueueBuffer > 0 {
		queueConfig.QueueBuffer = s.config.Events.QueueBuffer
	}
	if s.events == nil && s.config.Events.Enabled {
		s.events = event.New(
			event.WithLogger(s.logger),
			event.WithNewMemoryQueueConfig(func(string) memory.Config { return queueConfig }),
		)
		s.events.SetListener(func(e *event.Event[any]) {
			s.logger.Debug("workflow event",
				"entity", e.Context.EntityType,
				"id", e.Context.EntityID,
				"op", e.Context.Op,
				"from", e.Context.From,
				"to", e.Context.To)
		})
	}
	s.notifier = notification.New(
		notification.WithLimit(s.config.Notification.Limit),
		notification.WithNow(s.now),
	)
	reviewOptions := []reviewmem.Option{reviewmem.WithNow(s.now)}
	if s.events != nil {
		reviewOptions = append(reviewOptions, reviewmem.WithQueue(memory.NewQueue[review.Event](queueConfig)))
	}
	s.reviews = reviewmem.New(reviewOptions...)

	engine, err := workflow.New(
		workflow.WithLogger(s.logger),
		workflow.WithNow(s.now),
		workflow.WithPolicy(s.policy),
		workflow.WithDeadlineBusinessDays(s.config.Deadline.BusinessDays),
		workflow.WithNotifier(s.notifier),
		workflow.WithReviewService(s.reviews),
		workflow.WithEventService(s.events),
	)
	if err != nil {
		return err
	}
	s.engine = engine
	if s.config.SkipSeed && s.fixtures == nil {
		return nil
	}
	if s.fixtures == nil {
		if s.fixtures, err = fixture.Load(ctx, s.config.Fixtures); err != nil {
			return err
		}
	}
	if err = s.engine.Seed(ctx, s.fixtures); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	s.logger.Info("tracker ready",
		"plans", len(s.fixtures.AuditPlans),
		"ncars", len(s.fixtures.NCARs),
		"actionPlans", len(s.fixtures.ActionPlans))
	return nil
}

// Workflow returns the workflow engine.
func (s *Service) Workflow() *workflow.Service { return s.engine }

// Events returns the event service, or nil when events are disabled. An
// event service created from Config is drained by a debug log listener;
// pass one with WithEventService to consume the feed directly.
func (s *Service) Events() *event.Service { return s.events }

// Reviews returns the review ledger. Its Queue carries request and decision
// events when events are enabled.
func (s *Service) Reviews() review.Service { return s.reviews }

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Close stops event listeners.
func (s *Service) Close() {
	if s.events != nil {
		s.events.Close()
	}
}
