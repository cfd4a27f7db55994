package graph

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pingraph/internal/ident"
)

var (
	// ErrNotFound is returned when an ID or path does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrSameNode rejects a link between two pins of one node.
	ErrSameNode = errors.New("pins belong to the same node")
	// ErrSameKind rejects a link between two inputs or two outputs.
	ErrSameKind = errors.New("pins have the same kind")
	// ErrDuplicateLink rejects a second link between the same pair of pins.
	ErrDuplicateLink = errors.New("pins are already linked")
	// ErrNotExpandable rejects child or expansion operations on leaf pin types.
	ErrNotExpandable = errors.New("pin type cannot have children")
	// ErrDuplicateID rejects an explicit ID that is already in use.
	ErrDuplicateID = errors.New("identifier already in use")
	// ErrDuplicateName rejects a pin name already taken by a sibling.
	ErrDuplicateName = errors.New("pin name already used by a sibling")
	// ErrInvalidName rejects pin names containing PathSeparator.
	ErrInvalidName = errors.New("pin name contains the path separator")
)

// LinkRejection explains why TrySpawnLink refused a pair of pins.
type LinkRejection struct {
	A, B   ident.ID
	Reason error
}

func (e *LinkRejection) Error() string {
	return fmt.Sprintf("link %s-%s rejected: %v", e.A, e.B, e.Reason)
}

func (e *LinkRejection) Unwrap() error {
	return e.Reason
}

func pinNotFound(id ident.ID) error {
	return fmt.Errorf("pin %s: %w", id, ErrNotFound)
}

func nodeNotFound(id ident.ID) error {
	return fmt.Errorf("node %s: %w", id, ErrNotFound)
}
