package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/dao"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/service/review"
	"github.com/viant/auditflow/tracing"
)

// Review decides on the action plan of an NCAR in Action Plan Submitted.
// Approval closes the NCAR; rejection reopens it for another submission.
// Non-empty remarks are stored on the action plan and every decision is
// kept in the review ledger.
func (s *Service) Review(ctx context.Context, identity model.Identity, ncarID string, decision Decision, remarks string) (ret *model.NCAR, err error) {
	const op = policy.OpReview
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
	trigger, ok := decision.trigger()
	if !ok {
		return nil, newError(op, ncarID, ErrValidation, "unsupported decision %q", decision)
	}
	next, ok := ncar.Status.Fire(trigger)
	if !ok {
		return nil, newError(op, ncarID, ErrInvalidState, "ncar is %s", ncar.Status)
	}
	plan, err := s.actionPlans.Load(ctx, ncarID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, newError(op, ncarID, ErrMissingDependency, "plan missing")
		}
		return nil, err
	}

	now := s.now()
	from := ncar.Status
	ncar.Status = next
	ncar.UpdatedAt = now
	ncar.Version++
	if next == model.NCARStatusClosed {
		ncar.ClosedAt = &now
	}
	remarks = strings.TrimSpace(remarks)
	// the ledger goes first so a refused decision leaves the NCAR untouched
	if err = s.decide(ctx, identity, ncar, plan, trigger == model.TriggerApprove, remarks); err != nil {
		return nil, err
	}
	if err = s.ncars.Save(ctx, ncar); err != nil {
		return nil, err
	}
	if remarks != "" {
		plan.Remarks = remarks
		if err = s.actionPlans.Save(ctx, plan); err != nil {
			return nil, err
		}
	}

	s.record(op, ncar.ID, identity, string(from), string(next))
	if next == model.NCARStatusClosed {
		s.notify(ctx, model.SeveritySuccess, "NCAR %s Verified & Closed.", ncar.ID)
	} else {
		s.notify(ctx, model.SeverityWarning, "NCAR %s Reopened for Correction.", ncar.ID)
	}
	publish(ctx, s, event.EntityNCAR, op, identity, string(from), string(next), ncar.ID, *ncar)
	return ncar, nil
}

// ReviewActionPlan is the review entry point of the action plan screen.
func (s *Service) ReviewActionPlan(ctx context.Context, identity model.Identity, ncarID string, decision Decision, remarks string) (*model.NCAR, error) {
	return s.Review(ctx, identity, ncarID, decision, remarks)
}

// Validate is the review entry point of the validation screen.
func (s *Service) Validate(ctx context.Context, identity model.Identity, ncarID string, decision Decision, remarks string) (*model.NCAR, error) {
	return s.Review(ctx, identity, ncarID, decision, remarks)
}

// decide records the decision against the pending request of plan, opening
// one first when the plan was imported without it.
func (s *Service) decide(ctx context.Context, identity model.Identity, ncar *model.NCAR, plan *model.ActionPlan, approved bool, remarks string) error {
	pending, err := review.ListPending(ctx, s.reviews, review.WithNCARID(ncar.ID))
	if err != nil {
		return err
	}
	found := false
	for _, r := range pending {
		if r.ID == plan.ID {
			found = true
			break
		}
	}
	if !found {
		if err = s.reviews.RequestReview(ctx, &review.Request{ID: plan.ID, NCARID: ncar.ID, SubmittedBy: plan.ResponsiblePerson, CreatedAt: plan.SubmittedAt}); err != nil {
			return err
		}
	}
	_, err = s.reviews.Decide(ctx, &review.Decision{
		RequestID: plan.ID,
		Approved:  approved,
		Remarks:   remarks,
		Reviewer:  identity.Name,
		Role:      identity.Role,
		Outcome:   ncar.Status,
		DecidedAt: ncar.UpdatedAt,
	})
	return err
}
