// Package postgreswrapper provides test utilities for abstracting over different PostgreSQL database adapters.
//
// This package enables testing of the circulation store across multiple database drivers
// (pgx, sql.DB, sqlx.DB) using a common Wrapper interface. The specific adapter type is determined
// by the ADAPTER_TYPE environment variable, the database by CIRCULATION_TEST_DSN.
// Tests are skipped when the database is not reachable.
//
// Usage:
//
//	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
//	defer wrapper.Close()
//	postgreswrapper.CleanUp(t, wrapper)
//
//	store := wrapper.GetStore()
//
// The integration tests share one database, so run them with go test -p 1.
package postgreswrapper
