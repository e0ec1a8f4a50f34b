package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for plan dates and due dates.
const DateLayout = "2006-01-02"

// AuditStatus is the lifecycle status of an audit plan.
type AuditStatus string

const (
	AuditStatusPlanned   AuditStatus = "Planned"
	AuditStatusActual    AuditStatus = "Actual Audit"
	AuditStatusCompleted AuditStatus = "Completed"
)

// Next returns the status following s and whether a step exists. Completed
// has no successor.
func (s AuditStatus) Next() (AuditStatus, bool) {
	switch s {
	case AuditStatusPlanned:
		return AuditStatusActual, true
	case AuditStatusActual:
		return AuditStatusCompleted, true
	}
	return s, false
}

// Terminal reports whether no further step exists.
func (s AuditStatus) Terminal() bool {
	_, ok := s.Next()
	return !ok
}

// Rank orders statuses along the lifecycle; unknown statuses rank -1.
func (s AuditStatus) Rank() int {
	switch s {
	case AuditStatusPlanned:
		return 0
	case AuditStatusActual:
		return 1
	case AuditStatusCompleted:
		return 2
	}
	return -1
}

// AuditPlan schedules an audit.
type AuditPlan struct {
	ID             string      `json:"id" yaml:"id"`
	StartDate      string      `json:"startDate" yaml:"startDate"`
	EndDate        string      `json:"endDate" yaml:"endDate"`
	Auditors       []string    `json:"auditors" yaml:"auditors"`
	Auditees       []string    `json:"auditees" yaml:"auditees"`
	AttachmentName string      `json:"attachmentName,omitempty" yaml:"attachmentName,omitempty"`
	Status         AuditStatus `json:"status" yaml:"status"`
	Locked         bool        `json:"isLocked" yaml:"isLocked"`
	CreatedAt      time.Time   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Version        int         `json:"version" yaml:"version"`
}

// Clone returns a deep copy.
func (p *AuditPlan) Clone() *AuditPlan {
	if p == nil {
		return nil
	}
	ret := *p
	ret.Auditors = append([]string(nil), p.Auditors...)
	ret.Auditees = append([]string(nil), p.Auditees...)
	return &ret
}

// StatusOf satisfies the criteria matcher.
func (p *AuditPlan) StatusOf() string { return string(p.Status) }

// ValidateDates checks both dates parse and start does not follow end.
// Empty dates are accepted.
func ValidateDates(start, end string) error {
	var startAt, endAt time.Time
	var err error
	if start != "" {
		if startAt, err = time.Parse(DateLayout, start); err != nil {
			return fmt.Errorf("invalid start date %q", start)
		}
	}
	if end != "" {
		if endAt, err = time.Parse(DateLayout, end); err != nil {
			return fmt.Errorf("invalid end date %q", end)
		}
	}
	if start != "" && end != "" && endAt.Before(startAt) {
		return fmt.Errorf("end date %s precedes start date %s", end, start)
	}
	return nil
}
