package graph

import (
	"slices"
	"sort"

	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/value"
)

// Node is a named container of input and output pin trees.
type Node struct {
	id    ident.ID
	name  string
	typ   NodeType
	pos   Vec2
	attrs map[string]value.Binding

	inputs  []ident.ID
	outputs []ident.ID

	// graph is repointed by ReplaceWith; it always names the Graph whose
	// arena currently holds the node.
	graph *Graph
}

func (n *Node) ID() ident.ID   { return n.id }
func (n *Node) Name() string   { return n.name }
func (n *Node) Type() NodeType { return n.typ }
func (n *Node) Position() Vec2 { return n.pos }
func (n *Node) Graph() *Graph  { return n.graph }

// Roots returns the IDs of the node's root pins of the given kind, in order.
func (n *Node) Roots(kind PinKind) []ident.ID {
	return slices.Clone(*n.rootsOf(kind))
}

// Inputs resolves the node's input root pins.
func (n *Node) Inputs() []*Pin { return n.resolve(n.inputs) }

// Outputs resolves the node's output root pins.
func (n *Node) Outputs() []*Pin { return n.resolve(n.outputs) }

// Attribute returns the binding stored under name.
func (n *Node) Attribute(name string) (value.Binding, bool) {
	b, ok := n.attrs[name]
	return b, ok
}

// AttributeNames returns the attribute keys, sorted.
func (n *Node) AttributeNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (n *Node) rootsOf(kind PinKind) *[]ident.ID {
	if kind == Output {
		return &n.outputs
	}
	return &n.inputs
}

func (n *Node) resolve(ids []ident.ID) []*Pin {
	out := make([]*Pin, 0, len(ids))
	for _, id := range ids {
		out = append(out, n.graph.mustPin(id))
	}
	return out
}
