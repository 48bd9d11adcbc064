// Package postgresengine provides the PostgreSQL implementation of the circulation engine.
//
// Every write operation is one explicit application-level transaction. Decisions are taken by the
// pure functions of the circulation package on state that was read under row locks inside the
// same transaction, so no invariant is ever checked outside the transaction that acts on it.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - SELECT ... FOR UPDATE row locking, optionally at SERIALIZABLE isolation
//   - Postgres constraint and serialization errors translated into circulation errors
//   - Loan history archived before a book deletion cascades
//   - Nil-safe logging, metrics and tracing hooks
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewStoreFromPGXPool(
//		db,
//		postgresengine.WithStatusPolicy(circulation.StatusPolicy{AllowPendingToReturned: true}),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.Migrate(ctx)
//
//	bookID, _ := store.AddBook(ctx, circulation.NewBook{Title: "Noli Me Tangere", ...})
//	record, err := store.RequestBorrow(ctx, userID, bookID)
//	record, err = store.AdvanceStatus(ctx, record.ID, circulation.BorrowAccepted)
package postgresengine
