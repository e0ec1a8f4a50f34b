// Package idgen produces identifiers for workflow records. Business records
// carry readable sequence numbers (AP_000001_202310); transient records such
// as notifications use opaque UUID strings. It lives under `internal`
// because callers should treat identifiers as opaque.
package idgen
