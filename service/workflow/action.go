package workflow

import (
	"context"
	"errors"

	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/dao"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/service/review"
	"github.com/viant/auditflow/tracing"
)

// SubmitActionPlan files the remediation proposal for an NCAR that awaits
// one, replacing any earlier proposal, and moves the NCAR to Action Plan
// Submitted.
func (s *Service) SubmitActionPlan(ctx context.Context, identity model.Identity, ncarID string, input ActionPlanInput) (ret *model.ActionPlan, err error) {
	const op = policy.OpSubmitActionPlan
	ctx, span := s.startSpan(ctx, op, ncarID, identity)
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(ncarID)
	defer unlock()

	ncar, err := s.loadNCAR(ctx, op, ncarID)
	if err != nil {
		return nil, err
	}
	if err = s.authorize(ctx, op, ncarID, identity, ncarResource(ncar)); err != nil {
		s.logger.Warn("operation denied", "op", op, "id", ncarID, "actor", identity.Name, "role", identity.Role)
		return nil, err
	}
	next, ok := ncar.Status.Fire(model.TriggerSubmit)
	if !ok {
		return nil, newError(op, ncarID, ErrInvalidState, "ncar is %s", ncar.Status)
	}
	if err = input.normalize(op, ncarID); err != nil {
		return nil, err
	}
	now := s.now()
	plan := &model.ActionPlan{
		ID:                  s.sequence.Next(idgen.PrefixActionPlan, now),
		NCARID:              ncar.ID,
		ImmediateCorrection: input.ImmediateCorrection,
		ResponsiblePerson:   input.ResponsiblePerson,
		RootCause:           input.RootCause,
		CorrectiveAction:    input.CorrectiveAction,
		DueDate:             input.DueDate,
		SubmittedAt:         now,
	}
	// delete first so the replacement is listed as the newest plan
	if err = s.actionPlans.Delete(ctx, ncar.ID); err != nil && !errors.Is(err, dao.ErrNotFound) {
		return nil, err
	}
	if err = s.actionPlans.Save(ctx, plan); err != nil {
		return nil, err
	}
	from := ncar.Status
	ncar.Status = next
	ncar.UpdatedAt = now
	ncar.Version++
	if err = s.ncars.Save(ctx, ncar); err != nil {
		return nil, err
	}
	if err = s.reviews.RequestReview(ctx, &review.Request{ID: plan.ID, NCARID: ncar.ID, SubmittedBy: identity.Name, CreatedAt: now}); err != nil {
		return nil, err
	}
	s.record(op, ncar.ID, identity, string(from), string(next))
	s.notify(ctx, model.SeveritySuccess, "Action Plan for %s submitted for Lead Auditor review.", ncar.ID)
	publish(ctx, s, event.EntityActionPlan, op, identity, string(from), string(next), plan.ID, *plan)
	publish(ctx, s, event.EntityNCAR, op, identity, string(from), string(next), ncar.ID, *ncar)
	return plan.Clone(), nil
}
