// Package updatebook implements the Update Book use case: new catalog metadata plus the
// declared number of copies, applied together in one transaction.
package updatebook
