package review

import (
	"time"

	"github.com/viant/auditflow/model"
)

// Event envelope published on the service queue.
type Event struct {
	Topic string
	Data  interface{} // *Request | *Decision
}

const (
	TopicRequestCreated    = "request.created"
	TopicRequestSuperseded = "request.superseded"
	TopicDecisionCreated   = "decision.created"
)

// Request asks for review of one submitted action plan.
type Request struct {
	ID          string    `json:"id" yaml:"id"` // action plan id
	NCARID      string    `json:"ncarId" yaml:"ncarId"`
	SubmittedBy string    `json:"submittedBy,omitempty" yaml:"submittedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// Decision records the outcome of a review.
type Decision struct {
	ID        string           `json:"id" yaml:"id"`
	RequestID string           `json:"requestId" yaml:"requestId"`
	NCARID    string           `json:"ncarId" yaml:"ncarId"`
	Approved  bool             `json:"approved" yaml:"approved"`
	Remarks   string           `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	Reviewer  string           `json:"reviewer" yaml:"reviewer"`
	Role      model.Role       `json:"role" yaml:"role"`
	Outcome   model.NCARStatus `json:"outcome" yaml:"outcome"`
	DecidedAt time.Time        `json:"decidedAt" yaml:"decidedAt"`
}
