package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/auditflow/internal/clock"
	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/internal/keylock"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/dao"
	"github.com/viant/auditflow/service/dao/store"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/service/fixture"
	"github.com/viant/auditflow/service/notification"
	"github.com/viant/auditflow/service/review"
	reviewmem "github.com/viant/auditflow/service/review/memory"
	"github.com/viant/auditflow/tracing"
)

// DefaultDeadlineBusinessDays is the NCAR response window.
const DefaultDeadlineBusinessDays = 5

// Service is the workflow engine. It owns the audit plan, NCAR and action
// plan collections and is the only component that mutates them.
type Service struct {
	plans       dao.Service[string, model.AuditPlan]
	ncars       dao.Service[string, model.NCAR]
	actionPlans dao.Service[string, model.ActionPlan]

	sequence     *idgen.Sequence
	locks        *keylock.Locker
	notifier     *notification.Service
	reviews      review.Service
	events       *event.Service
	policy       *policy.Policy
	logger       *slog.Logger
	now          func() time.Time
	deadlineDays int

	mu    sync.RWMutex
	users []*model.User
	trail []*model.TrailEntry
}

// New creates an engine with empty collections.
func New(options ...Option) (*Service, error) {
	ret := &Service{
		locks:        keylock.New(),
		deadlineDays: DefaultDeadlineBusinessDays,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.now == nil {
		ret.now = clock.Now
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.sequence == nil {
		ret.sequence = idgen.NewSequence()
	}
	if ret.plans == nil {
		ret.plans = store.NewMemoryStore[string, model.AuditPlan](
			func(p *model.AuditPlan) string { return p.ID },
			store.WithClone[string, model.AuditPlan]((*model.AuditPlan).Clone))
	}
	if ret.ncars == nil {
		ret.ncars = store.NewMemoryStore[string, model.NCAR](
			func(n *model.NCAR) string { return n.ID },
			store.WithClone[string, model.NCAR]((*model.NCAR).Clone))
	}
	if ret.actionPlans == nil {
		ret.actionPlans = store.NewMemoryStore[string, model.ActionPlan](
			func(a *model.ActionPlan) string { return a.NCARID },
			store.WithClone[string, model.ActionPlan]((*model.ActionPlan).Clone))
	}
	if ret.notifier == nil {
		ret.notifier = notification.New(notification.WithNow(ret.now))
	}
	if ret.reviews == nil {
		ret.reviews = reviewmem.New(reviewmem.WithNow(ret.now))
	}
	if ret.policy == nil {
		p, err := policy.New(nil)
		if err != nil {
			return nil, err
		}
		ret.policy = p
	}
	if ret.deadlineDays <= 0 {
		return nil, fmt.Errorf("invalid deadline window: %d business days", ret.deadlineDays)
	}
	return ret, nil
}

// Seed loads fixtures. Lists are expected newest first, as rendered.
func (s *Service) Seed(ctx context.Context, fixtures *fixture.Fixtures) error {
	if fixtures == nil {
		return nil
	}
	if err := fixtures.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	for _, u := range fixtures.Users {
		user := *u
		s.users = append(s.users, &user)
	}
	s.mu.Unlock()

	for i := len(fixtures.AuditPlans) - 1; i >= 0; i-- {
		plan := fixtures.AuditPlans[i].Clone()
		if plan.Version == 0 {
			plan.Version = 1
		}
		if err := s.plans.Save(ctx, plan); err != nil {
			return fmt.Errorf("failed to seed audit plan %v: %w", plan.ID, err)
		}
	}
	for i := len(fixtures.NCARs) - 1; i >= 0; i-- {
		ncar := fixtures.NCARs[i].Clone()
		if ncar.Version == 0 {
			ncar.Version = 1
		}
		if err := s.ncars.Save(ctx, ncar); err != nil {
			return fmt.Errorf("failed to seed ncar %v: %w", ncar.ID, err)
		}
	}
	for i := len(fixtures.ActionPlans) - 1; i >= 0; i-- {
		plan := fixtures.ActionPlans[i].Clone()
		if err := s.actionPlans.Save(ctx, plan); err != nil {
			return fmt.Errorf("failed to seed action plan %v: %w", plan.ID, err)
		}
	}
	if err := s.notifier.Seed(ctx, fixtures.Notifications...); err != nil {
		return err
	}
	return s.restore(ctx)
}

// restore rebuilds derived state from the stored records: sequence counters
// move past every stored identifier, and each action plan whose NCAR awaits
// review gets a pending review request.
func (s *Service) restore(ctx context.Context) error {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		s.sequence.Observe(plan.ID)
	}
	ncars, err := s.ncars.List(ctx)
	if err != nil {
		return err
	}
	for _, ncar := range ncars {
		s.sequence.Observe(ncar.ID)
	}
	actionPlans, err := s.actionPlans.List(ctx)
	if err != nil {
		return err
	}
	for i := len(actionPlans) - 1; i >= 0; i-- {
		plan := actionPlans[i]
		s.sequence.Observe(plan.ID)
		ncar, err := s.ncars.Load(ctx, plan.NCARID)
		if err != nil {
			return fmt.Errorf("failed to restore action plan %v: %w", plan.ID, err)
		}
		if !ncar.Status.AwaitingReview() {
			continue
		}
		if err = s.reviews.RequestReview(ctx, &review.Request{ID: plan.ID, NCARID: plan.NCARID, SubmittedBy: plan.ResponsiblePerson, CreatedAt: plan.SubmittedAt}); err != nil {
			return err
		}
	}
	return nil
}

// authorize evaluates the policy for op. A policy carried in ctx takes
// precedence over the configured one.
func (s *Service) authorize(ctx context.Context, op, id string, identity model.Identity, resource map[string]any) error {
	if !identity.Role.Valid() {
		return newError(op, id, ErrPermission, "unknown role %q", identity.Role)
	}
	p := policy.FromContext(ctx)
	if p == nil {
		p = s.policy
	}
	allowed, err := p.Allowed(op, identity, resource)
	if err != nil {
		return newError(op, id, ErrPermission, "policy evaluation: %v", err)
	}
	if !allowed {
		return newError(op, id, ErrPermission, "%s may not %s", identity.Role.Label(), op)
	}
	return nil
}

func (s *Service) startSpan(ctx context.Context, op, id string, identity model.Identity) (context.Context, *tracing.Span) {
	ctx, span := tracing.StartSpan(ctx, "workflow."+op, "INTERNAL")
	span.WithAttributes(map[string]string{
		"entity.id": id,
		"actor":     identity.Name,
		"role":      string(identity.Role),
	})
	return ctx, span
}

// record appends a trail entry and logs the mutation.
func (s *Service) record(op, entityID string, identity model.Identity, from, to string) {
	entry := &model.TrailEntry{
		EntityID: entityID,
		Op:       op,
		Actor:    identity.Name,
		Role:     identity.Role,
		From:     from,
		To:       to,
		At:       s.now(),
	}
	s.mu.Lock()
	s.trail = append(s.trail, entry)
	s.mu.Unlock()
	s.logger.Info("workflow mutation", "op", op, "id", entityID, "actor", identity.Name, "role", identity.Role, "from", from, "to", to)
}

func (s *Service) notify(ctx context.Context, severity model.Severity, format string, args ...interface{}) {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	if _, err := s.notifier.Notify(ctx, severity, message); err != nil {
		s.logger.Warn("notification failed", "message", message, "error", err)
	}
}

func publish[T any](ctx context.Context, s *Service, entityType, op string, identity model.Identity, from, to, id string, data T) {
	evtCtx := &event.Context{
		EntityType: entityType,
		EntityID:   id,
		Op:         op,
		Actor:      identity.Name,
		Role:       string(identity.Role),
		From:       from,
		To:         to,
	}
	if err := event.Publish[T](ctx, s.events, evtCtx, data); err != nil {
		s.logger.Warn("event publish failed", "op", op, "id", id, "error", err)
	}
}

// loadPlan maps a missing record onto ErrNotFound.
func (s *Service) loadPlan(ctx context.Context, op, id string) (*model.AuditPlan, error) {
	plan, err := s.plans.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, newError(op, id, ErrNotFound, "audit plan %s does not exist", id)
		}
		return nil, err
	}
	return plan, nil
}

func (s *Service) loadNCAR(ctx context.Context, op, id string) (*model.NCAR, error) {
	ncar, err := s.ncars.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, newError(op, id, ErrNotFound, "ncar %s does not exist", id)
		}
		return nil, err
	}
	return ncar, nil
}

func planResource(p *model.AuditPlan) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"status":   string(p.Status),
		"locked":   p.Locked,
		"auditors": p.Auditors,
		"auditees": p.Auditees,
	}
}

func ncarResource(n *model.NCAR) map[string]any {
	return map[string]any{
		"id":          n.ID,
		"status":      string(n.Status),
		"auditPlanId": n.AuditPlanID,
		"findingType": string(n.FindingType),
		"area":        n.Area,
		"auditor":     n.Auditor,
		"auditee":     n.Auditee,
	}
}
