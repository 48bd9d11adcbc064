package circulation

import (
	"sort"
)

// BorrowState is the state a borrow request is decided on, read inside the borrow transaction.
type BorrowState struct {
	UserExists           bool
	BookExists           bool
	AvailableCopies      []Copy
	HasActiveLoanForBook bool
}

// DecideBorrow determines which copy a borrow request claims.
// It is a pure function; the engine supplies the state it read under lock.
//
// Business Rules:
//
//	GIVEN: a user with UserID and a book with BookID
//	WHEN: a borrow is requested
//	THEN: the Available copy with the lowest id is claimed
//	ERROR: ErrUserNotFound / ErrBookNotFound if either does not exist
//	ERROR: ErrNoAvailableCopies if no copy of the book is Available
//	ERROR: ErrAlreadyBorrowed if the user holds a Pending or Accepted loan of any copy of the book
func DecideBorrow(s BorrowState) (Copy, error) {
	if !s.UserExists {
		return Copy{}, ErrUserNotFound
	}

	if !s.BookExists {
		return Copy{}, ErrBookNotFound
	}

	var candidate *Copy
	for i := range s.AvailableCopies {
		c := s.AvailableCopies[i]
		if !c.IsAvailable() {
			continue
		}

		if candidate == nil || c.ID < candidate.ID {
			candidate = &c
		}
	}

	if candidate == nil {
		return Copy{}, ErrNoAvailableCopies
	}

	if s.HasActiveLoanForBook {
		return Copy{}, ErrAlreadyBorrowed
	}

	return *candidate, nil
}

// DecideTransition determines whether a borrow record may move from current to next.
//
// Business Rules:
//
//	GIVEN: a borrow record in status current
//	WHEN: a librarian advances it to next
//	THEN: the transition is allowed if the policy has the edge current -> next
//	ERROR: ErrAlreadyReturned if current is Returned, whatever next is
//	ERROR: ErrInvalidTransition for unknown statuses and every edge the policy lacks
func DecideTransition(policy StatusPolicy, current, next BorrowStatus) error {
	if current == BorrowReturned {
		return ErrAlreadyReturned
	}

	if !policy.Knows(next) {
		return ErrInvalidTransition
	}

	if !policy.Allows(current, next) {
		return ErrInvalidTransition
	}

	return nil
}

// ReconciliationPlan lists what has to change to reach a target copy count.
type ReconciliationPlan struct {
	CopiesToAdd    int
	CopiesToRemove []CopyID
}

// IsNoop reports whether the inventory already matches the target.
func (p ReconciliationPlan) IsNoop() bool {
	return p.CopiesToAdd == 0 && len(p.CopiesToRemove) == 0
}

// PlanReconciliation determines how the copies of one book reach target.
//
// Business Rules:
//
//	GIVEN: all copies of a book
//	WHEN: the declared copy count changes to target
//	THEN: target above the current count adds Available copies
//	THEN: target below the current count removes Available copies, highest id first
//	ERROR: ValidationError if target is negative
//	ERROR: ErrCannotReduceCopies if fewer copies are Available than have to go
func PlanReconciliation(copies []Copy, target int) (ReconciliationPlan, error) {
	if target < 0 {
		return ReconciliationPlan{}, ValidationError{Field: "number_of_copies", Reason: "must not be negative"}
	}

	current := len(copies)

	if target >= current {
		return ReconciliationPlan{CopiesToAdd: target - current}, nil
	}

	toRemove := current - target

	available := make([]CopyID, 0, current)
	for _, c := range copies {
		if c.IsAvailable() {
			available = append(available, c.ID)
		}
	}

	if len(available) < toRemove {
		return ReconciliationPlan{}, ErrCannotReduceCopies
	}

	sort.Slice(available, func(i, j int) bool { return available[i] > available[j] })

	return ReconciliationPlan{CopiesToRemove: available[:toRemove]}, nil
}

// DecideRoleChange determines whether a user's role may change.
// It reports changed=false when the user already has the requested role.
func DecideRoleChange(current, next Role) (changed bool, err error) {
	if !next.IsValid() {
		return false, ValidationError{Field: "role", Reason: "unknown role " + string(next)}
	}

	if current == RoleAdmin {
		return false, ErrAdminRoleImmutable
	}

	return current != next, nil
}

// DecideUserDeletion determines whether a user may be deleted. Admins are kept, and so is anyone
// holding a Pending or Accepted loan, whose copy would otherwise stay Borrowed.
func DecideUserDeletion(user User, activeLoans int) error {
	if user.Role == RoleAdmin {
		return ErrAdminRoleImmutable
	}

	if activeLoans > 0 {
		return ErrUserHasActiveLoans
	}

	return nil
}
