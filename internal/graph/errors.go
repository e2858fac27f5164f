package graph

import (
	"errors"
	"fmt"
)

// DataIntegrityError means a reduce group did not see exactly one record for
// an id, or a record contradicts the graph invariants. Fatal.
type DataIntegrityError struct {
	NodeID  string
	Records int
	Reason  string
}

func (e *DataIntegrityError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("data integrity: node %q: %s", e.NodeID, e.Reason)
	}
	return fmt.Sprintf("data integrity: expected exactly 1 record for node %q, saw %d", e.NodeID, e.Records)
}

// UnknownControlMessage means a message kind reached a reduce stage that
// does not understand it. Fatal.
type UnknownControlMessage struct {
	Key  string
	Kind Kind
}

func (e *UnknownControlMessage) Error() string {
	return fmt.Sprintf("unknown control message %s for key %q", e.Kind, e.Key)
}

// MissingNeighborError means a claim, link update or merge instruction names
// a node that is absent from the current round. Fatal.
type MissingNeighborError struct {
	NodeID   string
	Referrer string
	Kind     Kind
}

func (e *MissingNeighborError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("missing neighbor %q (%s)", e.NodeID, e.Kind)
	}
	return fmt.Sprintf("missing neighbor %q referenced by %q (%s)", e.NodeID, e.Referrer, e.Kind)
}

// IsFatal reports whether err carries one of the engine's fatal errors.
// Fatal errors abort the job; they are never retried.
func IsFatal(err error) bool {
	var di *DataIntegrityError
	var uc *UnknownControlMessage
	var mn *MissingNeighborError
	return errors.As(err, &di) || errors.As(err, &uc) || errors.As(err, &mn)
}
