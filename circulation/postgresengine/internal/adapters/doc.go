// Package adapters provide database adapter implementations for the PostgreSQL circulation engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, including transactions at a selectable isolation level,
// so the engine can run its read-check-write sequences on any supported connection type.
package adapters
