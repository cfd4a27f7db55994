package ident

import (
	"fmt"
	"strconv"
)

// ID is an opaque, process-local object identifier. The zero value is never
// issued and marks "no object" (for example the parent of a root pin).
type ID uint64

// Invalid is the zero ID.
const Invalid ID = 0

// IsValid reports whether the ID can name a live object.
func (id ID) IsValid() bool {
	return id != Invalid
}

// String renders the ID in the decimal form used by persisted pin paths.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Parse reads an ID from its decimal form. Zero is rejected because it is
// never issued.
func Parse(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Invalid, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	if n == 0 {
		return Invalid, fmt.Errorf("invalid identifier %q: zero is reserved", s)
	}
	return ID(n), nil
}

// Allocator hands out monotonically increasing IDs. It is not safe for
// concurrent use; a graph is only mutated from its frame loop.
type Allocator struct {
	next ID
}

// NewAllocator returns an allocator whose first ID is 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// Next returns the current counter value and advances it.
func (a *Allocator) Next() ID {
	id := a.next
	a.next++
	return id
}

// Observe records an ID that exists outside the allocator's own history,
// moving the counter to max(counter, id+1).
func (a *Allocator) Observe(id ID) {
	if id >= a.next {
		a.next = id + 1
	}
}

// Peek returns the ID the next call to Next will produce.
func (a *Allocator) Peek() ID {
	return a.next
}
