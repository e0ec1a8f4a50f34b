package workflow

import (
	"context"

	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/tracing"
)

// CreatePlan schedules a new audit plan in the Planned status.
func (s *Service) CreatePlan(ctx context.Context, identity model.Identity, input PlanInput) (ret *model.AuditPlan, err error) {
	const op = policy.OpCreatePlan
	ctx, span := s.startSpan(ctx, op, "", identity)
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.authorize(ctx, op, "", identity, map[string]any{
		"auditors": input.Auditors,
		"auditees": input.Auditees,
	}); err != nil {
		s.logger.Warn("operation denied", "op", op, "actor", identity.Name, "role", identity.Role)
		return nil, err
	}
	if err = input.normalize(op, ""); err != nil {
		return nil, err
	}
	now := s.now()
	plan := &model.AuditPlan{
		ID:             s.sequence.Next(idgen.PrefixAuditPlan, now),
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Auditors:       input.Auditors,
		Auditees:       input.Auditees,
		AttachmentName: input.AttachmentName,
		Status:         model.AuditStatusPlanned,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
	if err = s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.record(op, plan.ID, identity, "", string(plan.Status))
	s.notify(ctx, model.SeveritySuccess, "New Audit Plan created and scheduled.")
	publish(ctx, s, event.EntityAuditPlan, op, identity, "", string(plan.Status), plan.ID, *plan)
	return plan.Clone(), nil
}

// UpdatePlan replaces the dates, auditors, auditees and attachment of a plan
// that is not Completed. A positive expectedVersion must match the stored
// version. Status and lock are left untouched.
func (s *Service) UpdatePlan(ctx context.Context, identity model.Identity, id string, input PlanInput, expectedVersion int) (ret *model.AuditPlan, err error) {
	const op = policy.OpUpdatePlan
	ctx, span := s.startSpan(ctx, op, id, identity)
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(id)
	defer unlock()

	plan, err := s.loadPlan(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if err = s.authorize(ctx, op, id, identity, planResource(plan)); err != nil {
		s.logger.Warn("operation denied", "op", op, "id", id, "actor", identity.Name, "role", identity.Role)
		return nil, err
	}
	if expectedVersion > 0 && expectedVersion != plan.Version {
		return nil, newError(op, id, ErrConflict, "expected version %d, current %d", expectedVersion, plan.Version)
	}
	if plan.Status.Terminal() {
		return nil, newError(op, id, ErrInvalidState, "plan is %s", plan.Status)
	}
	if err = input.normalize(op, id); err != nil {
		return nil, err
	}
	plan.StartDate = input.StartDate
	plan.EndDate = input.EndDate
	plan.Auditors = input.Auditors
	plan.Auditees = input.Auditees
	plan.AttachmentName = input.AttachmentName
	plan.UpdatedAt = s.now()
	plan.Version++
	if err = s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.record(op, plan.ID, identity, string(plan.Status), string(plan.Status))
	s.notify(ctx, model.SeveritySuccess, "Audit Plan updated successfully.")
	publish(ctx, s, event.EntityAuditPlan, op, identity, string(plan.Status), string(plan.Status), plan.ID, *plan)
	return plan, nil
}

// AdvanceStatus moves a plan one step along Planned -> Actual Audit ->
// Completed. Identities the policy does not allow are ignored, as are
// Completed plans; both return the plan unchanged. Entering Actual Audit
// locks the plan.
func (s *Service) AdvanceStatus(ctx context.Context, identity model.Identity, id string) (ret *model.AuditPlan, err error) {
	const op = policy.OpAdvanceStatus
	ctx, span := s.startSpan(ctx, op, id, identity)
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(id)
	defer unlock()

	plan, err := s.loadPlan(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if authErr := s.authorize(ctx, op, id, identity, planResource(plan)); authErr != nil {
		s.logger.Warn("advance ignored", "id", id, "actor", identity.Name, "role", identity.Role, "reason", authErr.Error())
		return plan, nil
	}
	next, ok := plan.Status.Next()
	if !ok {
		return plan, nil
	}
	from := plan.Status
	plan.Status = next
	if next == model.AuditStatusActual {
		plan.Locked = true
	}
	plan.UpdatedAt = s.now()
	plan.Version++
	if err = s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.record(op, plan.ID, identity, string(from), string(next))
	s.notify(ctx, model.SeveritySuccess, "Status updated to %s for %s", next, plan.ID)
	publish(ctx, s, event.EntityAuditPlan, op, identity, string(from), string(next), plan.ID, *plan)
	return plan, nil
}
