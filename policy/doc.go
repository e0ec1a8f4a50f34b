// Package policy authorizes workflow operations. Each operation is guarded
// by a CEL expression evaluated against the acting identity and the record
// the operation targets. A *Policy can also be carried in a context to
// override the configured rules for a single call.
package policy
