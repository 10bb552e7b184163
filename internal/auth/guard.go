package auth

// Operation is an action a caller attempts against a resource.
type Operation string

// Operations checked by Authorize.
const (
	OpList          Operation = "list"
	OpCreate        Operation = "create"
	OpRetrieve      Operation = "retrieve"
	OpUpdate        Operation = "update"
	OpPartialUpdate Operation = "partial_update"
	OpDelete        Operation = "delete"
)

// Target describes the record an operation acts on.
//
// For detail operations it is the record itself. For a create under a
// parent (a reading under a system) it is the parent. List operations and
// top-level creates have no target and pass the zero value.
type Target struct {
	Exists  bool
	OwnerID string
}

// Owned builds a Target for a record that was found.
func Owned(ownerID string) Target {
	return Target{Exists: true, OwnerID: ownerID}
}

// Missing is the Target for a record that was not found.
var Missing = Target{}

// Authorize decides whether caller may perform op on target.
//
// Anonymous callers are rejected for every operation. Lists and top-level
// creates are allowed; the caller's scope is applied by the query itself
// and ownership of new records is forced to the caller. Detail operations
// on a record that is absent or belongs to another owner report
// ErrNotFound. A create under a parent owned by another owner reports
// ErrForbidden.
func Authorize(caller Caller, op Operation, target Target) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}

	switch op {
	case OpList:
		return nil
	case OpCreate:
		if target == Missing {
			return nil
		}
		if target.OwnerID != caller.OwnerID {
			return ErrForbidden
		}
		return nil
	case OpRetrieve, OpUpdate, OpPartialUpdate, OpDelete:
		if !target.Exists || target.OwnerID != caller.OwnerID {
			return ErrNotFound
		}
		return nil
	default:
		return ErrNotFound
	}
}
