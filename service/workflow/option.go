package workflow

import (
	"log/slog"
	"time"

	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/dao"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/service/notification"
	"github.com/viant/auditflow/service/review"
)

type Option func(s *Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPolicy sets the authorization policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithDeadlineBusinessDays sets the NCAR response window.
func WithDeadlineBusinessDays(days int) Option {
	return func(s *Service) { s.deadlineDays = days }
}

// WithSequence sets the identifier sequence.
func WithSequence(sequence *idgen.Sequence) Option {
	return func(s *Service) { s.sequence = sequence }
}

// WithNotifier sets the notification feed.
func WithNotifier(notifier *notification.Service) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithReviewService sets the review ledger.
func WithReviewService(reviews review.Service) Option {
	return func(s *Service) { s.reviews = reviews }
}

// WithEventService enables domain events.
func WithEventService(events *event.Service) Option {
	return func(s *Service) { s.events = events }
}

// WithPlanDAO replaces the audit plan store.
func WithPlanDAO(plans dao.Service[string, model.AuditPlan]) Option {
	return func(s *Service) { s.plans = plans }
}

// WithNCARDAO replaces the NCAR store.
func WithNCARDAO(ncars dao.Service[string, model.NCAR]) Option {
	return func(s *Service) { s.ncars = ncars }
}

// WithActionPlanDAO replaces the action plan store. The store must key
// records by NCAR id.
func WithActionPlanDAO(actionPlans dao.Service[string, model.ActionPlan]) Option {
	return func(s *Service) { s.actionPlans = actionPlans }
}
