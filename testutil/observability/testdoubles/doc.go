// Package testdoubles provides spies for the observability interfaces of the circulation engine.
//
// Every spy takes a recordCalls switch: with false it behaves like a no-op implementation,
// with true it captures all calls for inspection. All spies are safe for concurrent use.
package testdoubles
