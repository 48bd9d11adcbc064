package circulation

import (
	"fmt"
	"strings"
)

// BorrowStatus is the lifecycle status of a BorrowRecord; values match the persisted status ids.
type BorrowStatus int

const (
	BorrowPending  BorrowStatus = 1
	BorrowAccepted BorrowStatus = 2
	BorrowReturned BorrowStatus = 3
	BorrowRejected BorrowStatus = 4
)

// String provides a string representation of BorrowStatus for logging and JSON.
func (s BorrowStatus) String() string {
	switch s {
	case BorrowPending:
		return "pending"
	case BorrowAccepted:
		return "accepted"
	case BorrowReturned:
		return "returned"
	case BorrowRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// IsActive reports whether a record in this status still holds its copy.
func (s BorrowStatus) IsActive() bool {
	return s == BorrowPending || s == BorrowAccepted
}

// IsTerminal reports whether no further transition can leave this status.
func (s BorrowStatus) IsTerminal() bool {
	return s == BorrowReturned || s == BorrowRejected
}

// ParseBorrowStatus accepts either the numeric id or the name of a status.
func ParseBorrowStatus(raw string) (BorrowStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "pending":
		return BorrowPending, nil
	case "2", "accepted":
		return BorrowAccepted, nil
	case "3", "returned":
		return BorrowReturned, nil
	case "4", "rejected":
		return BorrowRejected, nil
	default:
		return 0, ValidationError{Field: "status", Reason: fmt.Sprintf("unknown borrow status %q", raw)}
	}
}

// ActiveBorrowStatuses are the statuses that count against the one-active-loan invariants.
func ActiveBorrowStatuses() []BorrowStatus {
	return []BorrowStatus{BorrowPending, BorrowAccepted}
}

// StatusPolicy configures the optional edges of the borrow status machine.
//
// The base machine is Pending -> Accepted -> Returned.
// AllowPendingToReturned adds Pending -> Returned.
// EnableRejected adds the fourth status and the edge Pending -> Rejected.
type StatusPolicy struct {
	AllowPendingToReturned bool
	EnableRejected         bool
}

// DefaultStatusPolicy is the three-state machine without shortcuts.
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{}
}

// Knows reports whether status exists under this policy.
func (p StatusPolicy) Knows(status BorrowStatus) bool {
	switch status {
	case BorrowPending, BorrowAccepted, BorrowReturned:
		return true
	case BorrowRejected:
		return p.EnableRejected
	default:
		return false
	}
}

// Allows reports whether the edge from -> to exists under this policy.
func (p StatusPolicy) Allows(from, to BorrowStatus) bool {
	switch {
	case from == BorrowPending && to == BorrowAccepted:
		return true
	case from == BorrowAccepted && to == BorrowReturned:
		return true
	case from == BorrowPending && to == BorrowReturned:
		return p.AllowPendingToReturned
	case from == BorrowPending && to == BorrowRejected:
		return p.EnableRejected
	default:
		return false
	}
}
