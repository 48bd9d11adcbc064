// Package oteladapters connects the circulation observability interfaces to OpenTelemetry.
//
// TracingCollector turns every store operation into a span, MetricsCollector records durations,
// counters and values with OTel instruments, and the contextual loggers either correlate slog
// records with the active span or hand them to an OTel log pipeline.
package oteladapters
