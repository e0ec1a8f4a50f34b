package workflow

import (
	"context"
	"errors"

	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/report"
	"github.com/viant/auditflow/service/dao"
	"github.com/viant/auditflow/service/review"
)

// ReviewItem is an entry of the review queue. PlanMissing is set when the
// NCAR awaits review but has no action plan, in which case review actions
// do not apply.
type ReviewItem struct {
	NCAR        *model.NCAR       `json:"ncar" yaml:"ncar"`
	ActionPlan  *model.ActionPlan `json:"actionPlan,omitempty" yaml:"actionPlan,omitempty"`
	PlanMissing bool              `json:"planMissing" yaml:"planMissing"`
}

// Plans lists audit plans newest first, optionally filtered by status.
func (s *Service) Plans(ctx context.Context, statuses ...model.AuditStatus) ([]*model.AuditPlan, error) {
	var parameters []*dao.Parameter
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, status := range statuses {
			values[i] = string(status)
		}
		parameters = append(parameters, dao.WithStatus(values...))
	}
	return s.plans.List(ctx, parameters...)
}

// Plan returns an audit plan by id.
func (s *Service) Plan(ctx context.Context, id string) (*model.AuditPlan, error) {
	return s.loadPlan(ctx, "plan", id)
}

// NCARs lists NCARs newest first, optionally filtered by status.
func (s *Service) NCARs(ctx context.Context, statuses ...model.NCARStatus) ([]*model.NCAR, error) {
	var parameters []*dao.Parameter
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, status := range statuses {
			values[i] = string(status)
		}
		parameters = append(parameters, dao.WithStatus(values...))
	}
	return s.ncars.List(ctx, parameters...)
}

// NCAR returns an NCAR by id.
func (s *Service) NCAR(ctx context.Context, id string) (*model.NCAR, error) {
	return s.loadNCAR(ctx, "ncar", id)
}

// SubmissionQueue lists NCARs waiting for an action plan.
func (s *Service) SubmissionQueue(ctx context.Context) ([]*model.NCAR, error) {
	var statuses []model.NCARStatus
	for _, status := range model.NCARStatuses {
		if status.AwaitingActionPlan() {
			statuses = append(statuses, status)
		}
	}
	return s.NCARs(ctx, statuses...)
}

// ReviewQueue lists NCARs waiting for a review decision with their plans.
func (s *Service) ReviewQueue(ctx context.Context) ([]*ReviewItem, error) {
	ncars, err := s.NCARs(ctx, model.NCARStatusActionPlanSubmitted)
	if err != nil {
		return nil, err
	}
	ret := make([]*ReviewItem, 0, len(ncars))
	for _, ncar := range ncars {
		item := &ReviewItem{NCAR: ncar}
		plan, err := s.actionPlans.Load(ctx, ncar.ID)
		switch {
		case err == nil:
			item.ActionPlan = plan
		case errors.Is(err, dao.ErrNotFound):
			item.PlanMissing = true
		default:
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// ActionPlanFor returns the live action plan of an NCAR.
func (s *Service) ActionPlanFor(ctx context.Context, ncarID string) (*model.ActionPlan, error) {
	const op = "actionPlanFor"
	if _, err := s.loadNCAR(ctx, op, ncarID); err != nil {
		return nil, err
	}
	plan, err := s.actionPlans.Load(ctx, ncarID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, newError(op, ncarID, ErrMissingDependency, "plan missing")
		}
		return nil, err
	}
	return plan, nil
}

// ActionPlans lists live action plans, most recently submitted first.
func (s *Service) ActionPlans(ctx context.Context) ([]*model.ActionPlan, error) {
	return s.actionPlans.List(ctx)
}

// Trail returns the mutations of a record, oldest first. An empty id
// returns the whole trail.
func (s *Service) Trail(entityID string) []*model.TrailEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ret []*model.TrailEntry
	for _, entry := range s.trail {
		if entityID != "" && entry.EntityID != entityID {
			continue
		}
		e := *entry
		ret = append(ret, &e)
	}
	return ret
}

// Decisions returns the review decisions recorded for an NCAR, newest first.
func (s *Service) Decisions(ctx context.Context, ncarID string) ([]*review.Decision, error) {
	return review.DecisionsFor(ctx, s.reviews, ncarID)
}

// Notifications returns the notification feed, newest first.
func (s *Service) Notifications(ctx context.Context) ([]*model.Notification, error) {
	return s.notifier.List(ctx)
}

// Users returns the roster.
func (s *Service) Users() []*model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*model.User, len(s.users))
	for i, u := range s.users {
		user := *u
		ret[i] = &user
	}
	return ret
}

// Dashboard computes the reporting figures as of now.
func (s *Service) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	ncars, err := s.ncars.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.Build(plans, ncars, s.now()), nil
}
