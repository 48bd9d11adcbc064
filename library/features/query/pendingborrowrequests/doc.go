// Package pendingborrowrequests implements the Pending Borrow Requests query, the librarians'
// work queue of loans awaiting a decision, oldest first.
package pendingborrowrequests
