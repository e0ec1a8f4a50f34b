// Package model contains the in-memory representation of the audit workflow
// records: audit plans, non-conformance reports (NCARs), action plans,
// notifications and the identities acting on them.
//
// Status lifecycles are expressed as pure functions on the status types so
// that the workflow engine and its tests share a single definition of the
// legal transitions.
package model
