package graph

import (
	"slices"

	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/value"
)

// Pin is one vertex of a pin tree. Root pins belong directly to a node;
// children belong to a compound parent pin.
type Pin struct {
	id   ident.ID
	name string
	typ  PinType
	kind PinKind

	expanded bool
	// opened is set the first time the pin is expanded or grown; children
	// may only exist once it is true.
	opened   bool
	children []ident.ID
	links    map[ident.ID]struct{}
	contents value.Binding

	node   ident.ID
	parent ident.ID
}

func (p *Pin) ID() ident.ID     { return p.id }
func (p *Pin) Name() string     { return p.name }
func (p *Pin) Type() PinType    { return p.typ }
func (p *Pin) Kind() PinKind    { return p.kind }
func (p *Pin) Node() ident.ID   { return p.node }
func (p *Pin) Parent() ident.ID { return p.parent }

// IsRoot reports whether the pin hangs directly off its node.
func (p *Pin) IsRoot() bool { return !p.parent.IsValid() }

// Expandable reports whether the pin's type permits children.
func (p *Pin) Expandable() bool { return p.typ.Compound() }

// Expanded reports whether the pin's children are shown individually.
// Always false for leaf types.
func (p *Pin) Expanded() bool { return p.expanded }

// Children returns the IDs of the pin's children in order.
func (p *Pin) Children() []ident.ID { return slices.Clone(p.children) }

func (p *Pin) ChildCount() int { return len(p.children) }

// Links returns the IDs of the links incident on the pin, sorted.
func (p *Pin) Links() []ident.ID {
	out := make([]ident.ID, 0, len(p.links))
	for id := range p.links {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (p *Pin) LinkCount() int { return len(p.links) }

// Contents returns the bound value, or nil.
func (p *Pin) Contents() value.Binding { return p.contents }

func (p *Pin) childIndex(id ident.ID) int {
	return slices.Index(p.children, id)
}
