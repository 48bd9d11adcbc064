// Package advanceborrowstatus implements the Advance Borrow Status use case.
//
// Librarians and admins move a borrow record through its lifecycle: Pending to Accepted or
// Rejected, Accepted to Returned. Returning or rejecting frees the copy in the same transaction.
package advanceborrowstatus
