// Package requestborrow implements the Request Borrow use case.
//
// A member asks to borrow a book for themselves, or a librarian files the request on a member's
// behalf. The store claims one Available copy and records a Pending loan in a single transaction;
// a librarian later accepts or rejects it through the advanceborrowstatus feature.
//
// Concurrency conflicts on the last copy are retried with exponential backoff.
package requestborrow
