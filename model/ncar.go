package model

import (
	"math"
	"time"
)

// FindingType classifies the severity of an NCAR.
type FindingType string

const (
	FindingMajor FindingType = "Major"
	FindingMinor FindingType = "Minor"
	FindingOFI   FindingType = "OFI"
)

// FindingTypes lists every known finding type.
var FindingTypes = []FindingType{FindingMajor, FindingMinor, FindingOFI}

// Valid reports whether f is a known finding type.
func (f FindingType) Valid() bool {
	for _, candidate := range FindingTypes {
		if f == candidate {
			return true
		}
	}
	return false
}

// NCAR is a non-conformance finding requiring remediation.
type NCAR struct {
	ID             string      `json:"id" yaml:"id"`
	AuditPlanID    string      `json:"auditPlanId" yaml:"auditPlanId"`
	Statement      string      `json:"statement" yaml:"statement"`
	Requirement    string      `json:"requirement" yaml:"requirement"`
	Evidence       string      `json:"evidence" yaml:"evidence"`
	FindingType    FindingType `json:"findingType" yaml:"findingType"`
	StandardClause string      `json:"standardClause" yaml:"standardClause"`
	Area           string      `json:"area" yaml:"area"`
	Auditor        string      `json:"auditor" yaml:"auditor"`
	Auditee        string      `json:"auditee" yaml:"auditee"`
	CreatedAt      time.Time   `json:"createdAt" yaml:"createdAt"`
	Status         NCARStatus  `json:"status" yaml:"status"`
	Deadline       time.Time   `json:"deadline" yaml:"deadline"`
	ClosedAt       *time.Time  `json:"closedAt,omitempty" yaml:"closedAt,omitempty"`
	UpdatedAt      time.Time   `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Version        int         `json:"version" yaml:"version"`
}

// Clone returns a deep copy.
func (n *NCAR) Clone() *NCAR {
	if n == nil {
		return nil
	}
	ret := *n
	if n.ClosedAt != nil {
		closedAt := *n.ClosedAt
		ret.ClosedAt = &closedAt
	}
	return &ret
}

// StatusOf satisfies the criteria matcher.
func (n *NCAR) StatusOf() string { return string(n.Status) }

// DaysRemaining returns whole days left until the deadline, rounded up and
// never negative.
func (n *NCAR) DaysRemaining(now time.Time) int {
	diff := n.Deadline.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// Overdue reports whether an unresolved NCAR is past its deadline.
func (n *NCAR) Overdue(now time.Time) bool {
	return !n.Status.Terminal() && now.After(n.Deadline)
}

// TAT returns the turnaround time in days for a closed NCAR.
func (n *NCAR) TAT() (float64, bool) {
	if n.ClosedAt == nil {
		return 0, false
	}
	return n.ClosedAt.Sub(n.CreatedAt).Hours() / 24, true
}
