package postgresengine

import (
	"errors"
	"time"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithStatusPolicy sets which optional borrow status transitions the store permits.
func WithStatusPolicy(policy circulation.StatusPolicy) Option {
	return func(s *Store) error {
		s.policy = policy
		return nil
	}
}

// WithIsolation sets how transactions protect their read-check-write sequences.
// RowLocking is the default; Serializable additionally runs every transaction at SERIALIZABLE,
// in which case callers are expected to retry on circulation.ErrConcurrencyConflict.
func WithIsolation(level circulation.IsolationLevel) Option {
	return func(s *Store) error {
		switch level {
		case circulation.RowLocking, circulation.Serializable:
			s.isolation = level
			return nil
		default:
			return errors.New("unsupported isolation level: " + level.String())
		}
	}
}

// WithClock replaces time.Now as the source of borrow, return and encoding dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) error {
		if clock == nil {
			return errors.New("clock must not be nil")
		}

		s.clock = clock
		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: completed operations and business rejections (production-safe)
// Warn level: concurrency conflicts and cleanup failures
// Error level: database failures that cause operation failures.
func WithLogger(logger circulation.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, which takes precedence over WithLogger.
func WithContextualLogger(logger circulation.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// It receives operation durations, error counts by type, and concurrency conflicts.
func WithMetrics(collector circulation.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store; every operation becomes one span.
func WithTracing(collector circulation.TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}
