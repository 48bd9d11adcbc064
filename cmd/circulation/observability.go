package main

import (
	"io"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/oteladapters"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

// observability bundles the collectors shared by the store and the handler wrappers.
// Nil collectors are skipped.
type observability struct {
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	contextualLogger *oteladapters.TraceCorrelatedLogger
}

func newLogger(w io.Writer, cfg config.Config) *oteladapters.TraceCorrelatedLogger {
	return oteladapters.NewTraceCorrelatedLogger(config.NewLogHandler(w, cfg.LogLevel))
}
