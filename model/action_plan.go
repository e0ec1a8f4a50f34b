package model

import "time"

// ActionPlan is the remediation proposal submitted against an NCAR. Only
// one live plan exists per NCAR; resubmission replaces it.
type ActionPlan struct {
	ID                  string    `json:"id" yaml:"id"`
	NCARID              string    `json:"ncarId" yaml:"ncarId"`
	ImmediateCorrection string    `json:"immediateCorrection" yaml:"immediateCorrection"`
	ResponsiblePerson   string    `json:"responsiblePerson" yaml:"responsiblePerson"`
	RootCause           string    `json:"rootCause" yaml:"rootCause"`
	CorrectiveAction    string    `json:"correctiveAction" yaml:"correctiveAction"`
	DueDate             string    `json:"dueDate" yaml:"dueDate"`
	SubmittedAt         time.Time `json:"submittedAt" yaml:"submittedAt"`
	Remarks             string    `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// Clone returns a copy.
func (a *ActionPlan) Clone() *ActionPlan {
	if a == nil {
		return nil
	}
	ret := *a
	return &ret
}
