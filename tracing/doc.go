// Package tracing wraps OpenTelemetry so that workflow operations can be
// traced with StartSpan/EndSpan without importing the upstream packages.
// Spans are no-ops until Init or InitWithExporter installs a provider.
package tracing
