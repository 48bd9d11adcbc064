package observable

import (
	"context"
	"time"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// CommandWrapper instruments any command handler with metrics, tracing and logging.
// Business outcomes are read from the HandlerResult and the returned error.
type CommandWrapper[C shell.Command, O any] struct {
	coreHandler      shell.CommandHandler[C, O]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C shell.Command, O any] func(*CommandWrapper[C, O]) error

// NewCommandWrapper creates an observable wrapper around coreHandler.
func NewCommandWrapper[C shell.Command, O any](
	coreHandler shell.CommandHandler[C, O],
	opts ...CommandOption[C, O],
) (*CommandWrapper[C, O], error) {
	var zeroCommand C

	wrapper := &CommandWrapper[C, O]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle runs the wrapped handler and records its outcome.
func (w *CommandWrapper[C, O]) Handle(ctx context.Context, command C) (O, shell.HandlerResult, error) {
	start := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	output, result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(start)

	shell.RecordRetryMetrics(ctx, w.metricsCollector, w.commandType, result)

	status := shell.StatusOf(err)
	if err == nil && result.Idempotent {
		status = shell.StatusIdempotent
	}

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)
	w.log(ctx, status, duration, result, err)

	return output, result, err
}

func (w *CommandWrapper[C, O]) log(ctx context.Context, status string, duration time.Duration, result shell.HandlerResult, err error) {
	args := []any{
		shell.LogAttrCommandType, w.commandType,
		shell.LogAttrBusinessOutcome, status,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
		shell.LogAttrAttemptNumber, result.RetryAttempts,
	}

	switch status {
	case shell.StatusSuccess, shell.StatusIdempotent:
		shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandCompleted, args...)
	case shell.StatusRejected:
		args = append(args, shell.LogAttrError, err.Error())
		shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandRejected, args...)
	default:
		args = append(args, shell.LogAttrError, err.Error(), shell.LogAttrErrorType, shell.ErrorTypeOf(err))
		shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandFailed, args...)
	}
}

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C shell.Command, O any](collector shell.MetricsCollector) CommandOption[C, O] {
	return func(w *CommandWrapper[C, O]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector for the CommandWrapper.
func WithCommandTracing[C shell.Command, O any](collector shell.TracingCollector) CommandOption[C, O] {
	return func(w *CommandWrapper[C, O]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger for the CommandWrapper.
func WithCommandContextualLogging[C shell.Command, O any](logger shell.ContextualLogger) CommandOption[C, O] {
	return func(w *CommandWrapper[C, O]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger for the CommandWrapper.
func WithCommandLogging[C shell.Command, O any](logger shell.Logger) CommandOption[C, O] {
	return func(w *CommandWrapper[C, O]) error {
		w.logger = logger
		return nil
	}
}
