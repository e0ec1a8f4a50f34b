// Package review keeps the ledger of action plan reviews. A request is
// opened whenever an action plan is submitted; the lead auditor's decision
// closes it. Requests and decisions outlive the action plans they refer to,
// so the review history of an NCAR survives resubmission.
package review
