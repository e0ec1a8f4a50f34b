// Package report computes the dashboard figures from snapshots of audit
// plans and NCARs. It holds no state; callers pass in what they render.
package report
