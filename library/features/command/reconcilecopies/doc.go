// Package reconcilecopies implements the Reconcile Copy Count use case.
//
// Staff declare how many physical copies a book has. Missing copies are created as Available,
// surplus Available copies are removed, and a target below the number of borrowed copies is refused.
// Reconciling to the current count changes nothing and is reported as idempotent.
package reconcilecopies
