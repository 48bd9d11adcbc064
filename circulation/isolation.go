package circulation

// IsolationLevel defines how the transactional engines protect their read-check-write sequences.
type IsolationLevel int

const (
	// RowLocking runs transactions at READ COMMITTED and locks the book and copy rows
	// a decision depends on with SELECT ... FOR UPDATE. This is the default.
	RowLocking IsolationLevel = iota

	// Serializable runs transactions at SERIALIZABLE in addition to the row locks.
	// Serialization failures surface as ErrConcurrencyConflict and are meant to be retried.
	Serializable
)

// String provides a string representation of IsolationLevel for logging and configuration.
func (l IsolationLevel) String() string {
	switch l {
	case RowLocking:
		return "row_locking"
	case Serializable:
		return "serializable"
	default:
		return "unknown"
	}
}

// ParseIsolationLevel is the inverse of IsolationLevel.String; empty input selects RowLocking.
func ParseIsolationLevel(raw string) (IsolationLevel, error) {
	switch raw {
	case "", "row_locking":
		return RowLocking, nil
	case "serializable":
		return Serializable, nil
	default:
		return 0, ValidationError{Field: "isolation", Reason: "unknown isolation level " + raw}
	}
}
