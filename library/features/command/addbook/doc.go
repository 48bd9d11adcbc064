// Package addbook implements the Add Book use case.
//
// The author is found by name or created on the fly, and the new book starts with one Available
// copy. Further copies are added through copy reconciliation.
package addbook
