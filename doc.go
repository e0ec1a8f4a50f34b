// Package auditflow tracks internal audits: audit plans, the
// non-conformance findings (NCARs) raised during them, and the corrective
// action plans that close those findings.
//
// The root package wires the workflow engine with its stores, notification
// feed, review ledger, authorization policy, events and seed data:
//
//	srv, _ := auditflow.New(ctx)
//	engine := srv.Workflow()
//	lead := model.NewIdentity("John Doe", model.RoleLeadAuditor)
//	ncar, _ := engine.RaiseNCAR(ctx, lead, workflow.NCARInput{...})
//
// Every operation takes the acting identity explicitly; nothing is read
// from ambient state.
package auditflow
