// Package deletebook implements the Delete Book use case.
//
// Before the book row and everything hanging off it are removed, all of its borrow records are
// copied into the loan history table in the same transaction. When a LoanArchiveExporter is
// configured the archived loans are additionally exported, for example to object storage.
// The export runs after the commit: a failed export is logged and never undoes the deletion,
// the loan history table stays the authoritative archive.
package deletebook
