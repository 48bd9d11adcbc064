package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

const (
	logMsgBuildQueryFailed   = "failed to build sql query"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgRollbackFailed     = "failed to roll back transaction"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "circulation operation: "
	logMsgOperationRejected  = "circulation operation rejected: "
	logMsgConcurrencyFailure = "concurrency conflict detected: "
	logMsgOperationFailed    = "circulation operation failed: "
	logAttrError             = "error"
	logAttrErrorType         = "error_type"
	logAttrQuery             = "query"
	logAttrAction            = "action"
	logAttrDurationMS        = "duration_ms"
	logAttrOperation         = "operation"
)

const (
	metricOperationDuration      = "circulation_operation_duration_seconds"
	metricOperationErrors        = "circulation_operation_errors_total"
	metricConcurrencyConflicts   = "circulation_concurrency_conflicts_total"
	metricCopiesChanged          = "circulation_copies_changed"
	spanNamePrefix               = "circulation."
	spanAttrOperation            = "operation"
	spanAttrErrorType            = "error_type"
	spanAttrDurationMS           = "duration_ms"
	labelOperation               = "operation"
	labelStatus                  = "status"
	labelErrorType               = "error_type"
	statusSuccess                = "success"
	statusError                  = "error"
	errorTypeNone                = "none"
	errorTypeConcurrencyConflict = "concurrency_conflict"
)

const (
	operationRequestBorrow   = "request_borrow"
	operationAdvanceStatus   = "advance_status"
	operationReconcileCopies = "reconcile_copy_count"
	operationUpdateBook      = "update_book"
	operationAddBook         = "add_book"
	operationDeleteBook      = "delete_book"
	operationRegisterUser    = "register_user"
	operationChangeUserRole  = "change_user_role"
	operationDeleteUser      = "delete_user"
	operationMigrate         = "migrate"
)

// operationObserver tracks one store operation across logs, metrics and tracing.
type operationObserver struct {
	s         Store
	ctx       context.Context
	operation string
	span      circulation.SpanContext
	start     time.Time
}

// startOperation opens a span for operation and returns the context to run it with.
func (s Store) startOperation(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (*operationObserver, context.Context) {
	spanAttrs := map[string]string{spanAttrOperation: operation}
	for k, v := range attrs {
		spanAttrs[k] = v
	}

	var span circulation.SpanContext
	if s.tracingCollector != nil {
		ctx, span = s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, spanAttrs)
	}

	return &operationObserver{
		s:         s,
		ctx:       ctx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}, ctx
}

// finish records the outcome of the operation. Business rejections are logged at info level,
// concurrency conflicts at warn level, and everything else at error level.
func (o *operationObserver) finish(err error, args ...any) {
	duration := time.Since(o.start)
	errType := errorType(err)

	status := statusSuccess
	if err != nil {
		status = statusError
	}

	o.s.recordDuration(o.ctx, metricOperationDuration, duration, map[string]string{
		labelOperation: o.operation,
		labelStatus:    status,
	})

	if o.span != nil {
		o.span.SetStatus(status)
		o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
		if err != nil {
			o.span.AddAttribute(spanAttrErrorType, errType)
		}
	}

	if o.s.tracingCollector != nil && o.span != nil {
		o.s.tracingCollector.FinishSpan(o.span, status, map[string]string{spanAttrErrorType: errType})
	}

	logArgs := append([]any{logAttrDurationMS, toMilliseconds(duration)}, args...)

	switch {
	case err == nil:
		o.s.logInfo(o.ctx, logMsgOperation+o.operation, logArgs...)

	case circulation.IsDomainError(err):
		o.s.incrementCounter(o.ctx, metricOperationErrors, map[string]string{labelOperation: o.operation, labelErrorType: errType})
		o.s.logInfo(o.ctx, logMsgOperationRejected+o.operation, append(logArgs, logAttrErrorType, errType)...)

	case errType == errorTypeConcurrencyConflict:
		o.s.incrementCounter(o.ctx, metricConcurrencyConflicts, map[string]string{labelOperation: o.operation})
		o.s.logWarn(o.ctx, logMsgConcurrencyFailure+o.operation, append(logArgs, logAttrError, err.Error())...)

	default:
		o.s.incrementCounter(o.ctx, metricOperationErrors, map[string]string{labelOperation: o.operation, labelErrorType: errType})
		o.s.logError(o.ctx, logMsgOperationFailed+o.operation, err, append(logArgs, logAttrErrorType, errType)...)
	}
}

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (s Store) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
		return
	}

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

func (s Store) logInfo(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s Store) logWarn(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (s Store) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}
}

// recordDuration uses the context-aware method if the collector supports it.
func (s Store) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextual, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metric, duration, labels)
}

func (s Store) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextual, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metric, labels)
}

func (s Store) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextual, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metric, value, labels)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
