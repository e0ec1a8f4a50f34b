package model

// NCARStatus is the lifecycle status of an NCAR.
type NCARStatus string

const (
	NCARStatusOpen                NCARStatus = "Open"
	NCARStatusActionPlanSubmitted NCARStatus = "Action Plan Submitted"
	NCARStatusRejected            NCARStatus = "Rejected"
	NCARStatusValidated           NCARStatus = "Validated"
	NCARStatusClosed              NCARStatus = "Closed"
	NCARStatusReopened            NCARStatus = "Reopened"
)

// NCARStatuses lists every known status.
var NCARStatuses = []NCARStatus{
	NCARStatusOpen,
	NCARStatusActionPlanSubmitted,
	NCARStatusRejected,
	NCARStatusValidated,
	NCARStatusClosed,
	NCARStatusReopened,
}

// NCARTrigger drives NCAR transitions.
type NCARTrigger string

const (
	TriggerSubmit  NCARTrigger = "submit"
	TriggerApprove NCARTrigger = "approve"
	TriggerReject  NCARTrigger = "reject"
)

// ncarTransitions is the single source of truth for legal NCAR edges.
// Rejected is only reachable through imported data; every review
// rejection yields Reopened. Validated is kept as a status value but has
// no edges.
var ncarTransitions = map[NCARStatus]map[NCARTrigger]NCARStatus{
	NCARStatusOpen:     {TriggerSubmit: NCARStatusActionPlanSubmitted},
	NCARStatusRejected: {TriggerSubmit: NCARStatusActionPlanSubmitted},
	NCARStatusReopened: {TriggerSubmit: NCARStatusActionPlanSubmitted},
	NCARStatusActionPlanSubmitted: {
		TriggerApprove: NCARStatusClosed,
		TriggerReject:  NCARStatusReopened,
	},
}

// Valid reports whether s is a known status.
func (s NCARStatus) Valid() bool {
	for _, candidate := range NCARStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Fire returns the status reached from s by trigger, and whether the edge
// exists.
func (s NCARStatus) Fire(trigger NCARTrigger) (NCARStatus, bool) {
	next, ok := ncarTransitions[s][trigger]
	if !ok {
		return s, false
	}
	return next, true
}

// CanFire reports whether trigger is legal from s.
func (s NCARStatus) CanFire(trigger NCARTrigger) bool {
	_, ok := s.Fire(trigger)
	return ok
}

// AwaitingActionPlan reports whether an action plan may be submitted.
func (s NCARStatus) AwaitingActionPlan() bool {
	return s.CanFire(TriggerSubmit)
}

// AwaitingReview reports whether the NCAR sits in the review queue.
func (s NCARStatus) AwaitingReview() bool {
	return s.CanFire(TriggerApprove)
}

// Terminal reports whether s is Closed. Closed is the only terminal status;
// Validated has no edges but is not treated as resolved.
func (s NCARStatus) Terminal() bool {
	return s == NCARStatusClosed
}

// Triggers returns the triggers legal from s.
func (s NCARStatus) Triggers() []NCARTrigger {
	var ret []NCARTrigger
	for _, trigger := range []NCARTrigger{TriggerSubmit, TriggerApprove, TriggerReject} {
		if s.CanFire(trigger) {
			ret = append(ret, trigger)
		}
	}
	return ret
}
