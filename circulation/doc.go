// Package circulation provides the domain core of the library circulation engine.
//
// It defines the catalog, copy inventory and loan ledger types, the borrow status
// state machine with its configurable StatusPolicy, and the pure decision functions
// that the transactional engines (see the postgresengine sub-package) run inside
// their transactions:
//
//   - DecideBorrow: which copy a borrow request claims, or why it is rejected
//   - DecideTransition: whether a borrow record may move to a new status
//   - PlanReconciliation: which copies to add or remove to reach a target count
//
// All invariant violations are reported with the sentinel errors of this package,
// so callers can branch with errors.Is regardless of the storage backend:
//
//	record, err := store.RequestBorrow(ctx, userID, bookID)
//	switch {
//	case errors.Is(err, circulation.ErrNoAvailableCopies):
//		// all copies are out
//	case errors.Is(err, circulation.ErrAlreadyBorrowed):
//		// the user holds an active loan of this book
//	}
//
// The observability interfaces (Logger, ContextualLogger, MetricsCollector,
// TracingCollector) are dependency-free; adapters for OpenTelemetry and Prometheus
// live in the oteladapters and promadapters sub-packages.
package circulation
