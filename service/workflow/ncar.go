package workflow

import (
	"context"

	"github.com/viant/auditflow/internal/clock"
	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/tracing"
)

// RaiseNCAR logs a new finding in the Open status. The deadline is fixed at
// creation, a configured number of business days out. The acting identity
// becomes the NCAR's auditor.
func (s *Service) RaiseNCAR(ctx context.Context, identity model.Identity, input NCARInput) (ret *model.NCAR, err error) {
	const op = policy.OpRaiseNCAR
	ctx, span := s.startSpan(ctx, op, "", identity)
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.authorize(ctx, op, "", identity, map[string]any{
		"auditPlanId": input.AuditPlanID,
		"findingType": string(input.FindingType),
		"area":        input.Area,
		"auditee":     input.Auditee,
	}); err != nil {
		s.logger.Warn("operation denied", "op", op, "actor", identity.Name, "role", identity.Role)
		return nil, err
	}
	if err = input.normalize(op); err != nil {
		return nil, err
	}
	if input.AuditPlanID != "" {
		if _, err = s.loadPlan(ctx, op, input.AuditPlanID); err != nil {
			return nil, err
		}
	}
	now := s.now()
	ncar := &model.NCAR{
		ID:             s.sequence.Next(idgen.PrefixNCAR, now),
		AuditPlanID:    input.AuditPlanID,
		Statement:      input.Statement,
		Requirement:    input.Requirement,
		Evidence:       input.Evidence,
		FindingType:    input.FindingType,
		StandardClause: input.Clause,
		Area:           input.Area,
		Auditor:        identity.Name,
		Auditee:        input.Auditee,
		CreatedAt:      now,
		Status:         model.NCARStatusOpen,
		Deadline:       clock.AddBusinessDays(now, s.deadlineDays),
		UpdatedAt:      now,
		Version:        1,
	}
	if err = s.ncars.Save(ctx, ncar); err != nil {
		return nil, err
	}
	s.record(op, ncar.ID, identity, "", string(ncar.Status))
	s.notify(ctx, model.SeveritySuccess, "NCAR %s successfully raised and assigned.", ncar.ID)
	publish(ctx, s, event.EntityNCAR, op, identity, "", string(ncar.Status), ncar.ID, *ncar)
	return ncar.Clone(), nil
}
