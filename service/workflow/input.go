package workflow

import (
	"strings"
	"time"

	"github.com/viant/auditflow/model"
)

// PlanInput carries the editable fields of an audit plan.
type PlanInput struct {
	StartDate      string   `json:"startDate" yaml:"startDate"`
	EndDate        string   `json:"endDate" yaml:"endDate"`
	Auditors       []string `json:"auditors" yaml:"auditors"`
	Auditees       []string `json:"auditees" yaml:"auditees"`
	AttachmentName string   `json:"attachmentName,omitempty" yaml:"attachmentName,omitempty"`
}

func (p *PlanInput) normalize(op, id string) error {
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.AttachmentName = strings.TrimSpace(p.AttachmentName)
	p.Auditors = names(p.Auditors)
	p.Auditees = names(p.Auditees)
	if len(p.Auditors) == 0 {
		return newError(op, id, ErrValidation, "at least one auditor is required")
	}
	if len(p.Auditees) == 0 {
		return newError(op, id, ErrValidation, "at least one auditee is required")
	}
	if err := model.ValidateDates(p.StartDate, p.EndDate); err != nil {
		return newError(op, id, ErrValidation, err.Error())
	}
	return nil
}

// NCARInput carries the fields of a new finding.
type NCARInput struct {
	AuditPlanID string            `json:"auditPlanId,omitempty" yaml:"auditPlanId,omitempty"`
	Statement   string            `json:"statement" yaml:"statement"`
	Requirement string            `json:"requirement" yaml:"requirement"`
	Evidence    string            `json:"evidence" yaml:"evidence"`
	FindingType model.FindingType `json:"findingType" yaml:"findingType"`
	Clause      string            `json:"clause" yaml:"clause"`
	Area        string            `json:"area" yaml:"area"`
	Auditee     string            `json:"auditee" yaml:"auditee"`
}

func (n *NCARInput) normalize(op string) error {
	n.AuditPlanID = strings.TrimSpace(n.AuditPlanID)
	n.Statement = strings.TrimSpace(n.Statement)
	n.Requirement = strings.TrimSpace(n.Requirement)
	n.Evidence = strings.TrimSpace(n.Evidence)
	n.Clause = strings.TrimSpace(n.Clause)
	n.Area = strings.TrimSpace(n.Area)
	n.Auditee = strings.TrimSpace(n.Auditee)
	switch {
	case n.Statement == "":
		return newError(op, "", ErrValidation, "statement is required")
	case n.Clause == "":
		return newError(op, "", ErrValidation, "clause is required")
	case n.Area == "":
		return newError(op, "", ErrValidation, "area is required")
	case n.Auditee == "":
		return newError(op, "", ErrValidation, "auditee is required")
	case !n.FindingType.Valid():
		return newError(op, "", ErrValidation, "unsupported finding type %q", n.FindingType)
	}
	return nil
}

// ActionPlanInput carries the fields of a remediation proposal.
type ActionPlanInput struct {
	ImmediateCorrection string `json:"immediateCorrection" yaml:"immediateCorrection"`
	ResponsiblePerson   string `json:"responsiblePerson" yaml:"responsiblePerson"`
	RootCause           string `json:"rootCause" yaml:"rootCause"`
	CorrectiveAction    string `json:"correctiveAction" yaml:"correctiveAction"`
	DueDate             string `json:"dueDate" yaml:"dueDate"`
}

func (a *ActionPlanInput) normalize(op, id string) error {
	a.ImmediateCorrection = strings.TrimSpace(a.ImmediateCorrection)
	a.ResponsiblePerson = strings.TrimSpace(a.ResponsiblePerson)
	a.RootCause = strings.TrimSpace(a.RootCause)
	a.CorrectiveAction = strings.TrimSpace(a.CorrectiveAction)
	a.DueDate = strings.TrimSpace(a.DueDate)
	switch {
	case a.ImmediateCorrection == "":
		return newError(op, id, ErrValidation, "immediate correction is required")
	case a.RootCause == "":
		return newError(op, id, ErrValidation, "root cause is required")
	case a.CorrectiveAction == "":
		return newError(op, id, ErrValidation, "corrective action is required")
	case a.ResponsiblePerson == "":
		return newError(op, id, ErrValidation, "responsible person is required")
	}
	if a.DueDate != "" {
		if _, err := time.Parse(model.DateLayout, a.DueDate); err != nil {
			return newError(op, id, ErrValidation, "invalid due date %q", a.DueDate)
		}
	}
	return nil
}

// Decision is the outcome of a review.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) trigger() (model.NCARTrigger, bool) {
	switch Decision(strings.ToLower(string(d))) {
	case DecisionApprove:
		return model.TriggerApprove, true
	case DecisionReject:
		return model.TriggerReject, true
	}
	return "", false
}

// names trims entries and drops blanks and duplicates, keeping order.
func names(values []string) []string {
	var ret []string
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		ret = append(ret, v)
	}
	return ret
}
