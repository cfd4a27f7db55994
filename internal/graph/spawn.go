package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/value"
)

// SpawnNode creates an empty node with a fresh ID.
func (g *Graph) SpawnNode(name string, typ NodeType, pos Vec2) *Node {
	return g.addNode(g.allocate(), name, typ, pos)
}

// SpawnNodeWithID creates a node under a caller-chosen ID, as a document load
// does. The allocator is advanced past id.
func (g *Graph) SpawnNodeWithID(id ident.ID, name string, typ NodeType, pos Vec2) (*Node, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("spawn node: %w", ErrNotFound)
	}
	if g.inUse(id) {
		return nil, fmt.Errorf("spawn node %s: %w", id, ErrDuplicateID)
	}
	g.ids.Observe(id)
	return g.addNode(id, name, typ, pos), nil
}

func (g *Graph) addNode(id ident.ID, name string, typ NodeType, pos Vec2) *Node {
	n := &Node{
		id:    id,
		name:  name,
		typ:   typ,
		pos:   pos,
		attrs: make(map[string]value.Binding),
		graph: g,
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// SpawnPin appends a root pin of the given kind to a node.
func (g *Graph) SpawnPin(nodeID ident.ID, kind PinKind, name string, typ PinType) (*Pin, error) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil, nodeNotFound(nodeID)
	}
	roots := n.rootsOf(kind)
	if err := g.checkName(*roots, ident.Invalid, name); err != nil {
		return nil, err
	}
	p := g.newPin(name, typ, kind, nodeID, ident.Invalid)
	*roots = append(*roots, p.id)
	return p, nil
}

// AppendChild adds a leaf child at the end of parent's children. The child
// inherits parent's kind.
func (g *Graph) AppendChild(parentID ident.ID, name string, typ PinType) (*Pin, error) {
	parent, err := g.compound(parentID)
	if err != nil {
		return nil, err
	}
	return g.insertChild(parent, len(parent.children), name, typ)
}

// PrependChild adds a leaf child at the start of parent's children.
func (g *Graph) PrependChild(parentID ident.ID, name string, typ PinType) (*Pin, error) {
	parent, err := g.compound(parentID)
	if err != nil {
		return nil, err
	}
	return g.insertChild(parent, 0, name, typ)
}

// InsertAfter adds a leaf child immediately after anchor. When anchor is not
// one of parent's children the child is appended.
func (g *Graph) InsertAfter(parentID, anchorID ident.ID, name string, typ PinType) (*Pin, error) {
	parent, err := g.compound(parentID)
	if err != nil {
		return nil, err
	}
	at := len(parent.children)
	if i := parent.childIndex(anchorID); i >= 0 {
		at = i + 1
	}
	return g.insertChild(parent, at, name, typ)
}

// SetExpanded shows or hides a compound pin's children. Links touching
// hidden descendants are drawn against the nearest visible ancestor.
func (g *Graph) SetExpanded(pinID ident.ID, expanded bool) error {
	p, err := g.compound(pinID)
	if err != nil {
		return err
	}
	p.expanded = expanded
	if expanded {
		p.opened = true
	}
	return nil
}

// SetContents binds a value to a pin. A nil binding clears it.
func (g *Graph) SetContents(pinID ident.ID, b value.Binding) error {
	p, ok := g.pins[pinID]
	if !ok {
		return pinNotFound(pinID)
	}
	p.contents = b
	return nil
}

// RenamePin changes a pin's display name. Persisted link paths follow the
// new name on the next save, so the name must stay unique among siblings.
func (g *Graph) RenamePin(pinID ident.ID, name string) error {
	p, ok := g.pins[pinID]
	if !ok {
		return pinNotFound(pinID)
	}
	if err := g.checkName(g.siblings(p), p.id, name); err != nil {
		return err
	}
	p.name = name
	return nil
}

// FreeChildName returns the smallest decimal name no child of parent uses.
func (g *Graph) FreeChildName(parentID ident.ID) (string, error) {
	parent, err := g.compound(parentID)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(parent.children))
	for _, id := range parent.children {
		taken[g.pins[id].name] = true
	}
	for i := 0; ; i++ {
		if name := strconv.Itoa(i); !taken[name] {
			return name, nil
		}
	}
}

// RenumberChildren names every child of parent after its position.
func (g *Graph) RenumberChildren(parentID ident.ID) error {
	parent, err := g.compound(parentID)
	if err != nil {
		return err
	}
	for i, id := range parent.children {
		g.pins[id].name = strconv.Itoa(i)
	}
	return nil
}

// RenameNode changes a node's display name.
func (g *Graph) RenameNode(nodeID ident.ID, name string) error {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nodeNotFound(nodeID)
	}
	n.name = name
	return nil
}

// MoveNode sets a node's position.
func (g *Graph) MoveNode(nodeID ident.ID, pos Vec2) error {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nodeNotFound(nodeID)
	}
	n.pos = pos
	return nil
}

// SetAttribute binds a value to a node attribute.
func (g *Graph) SetAttribute(nodeID ident.ID, name string, b value.Binding) error {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nodeNotFound(nodeID)
	}
	n.attrs[name] = b
	return nil
}

// RemoveAttribute drops a node attribute.
func (g *Graph) RemoveAttribute(nodeID ident.ID, name string) error {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nodeNotFound(nodeID)
	}
	delete(n.attrs, name)
	return nil
}

func (g *Graph) compound(pinID ident.ID) (*Pin, error) {
	p, ok := g.pins[pinID]
	if !ok {
		return nil, pinNotFound(pinID)
	}
	if !p.typ.Compound() {
		return nil, fmt.Errorf("pin %s (%s): %w", pinID, p.typ, ErrNotExpandable)
	}
	return p, nil
}

func (g *Graph) insertChild(parent *Pin, at int, name string, typ PinType) (*Pin, error) {
	if err := g.checkName(parent.children, ident.Invalid, name); err != nil {
		return nil, err
	}
	child := g.newPin(name, typ, parent.kind, parent.node, parent.id)
	parent.children = append(parent.children, ident.Invalid)
	copy(parent.children[at+1:], parent.children[at:])
	parent.children[at] = child.id
	parent.opened = true
	return child, nil
}

// checkName rejects a name that a pin path could not address among
// siblings. self is skipped so a pin may keep its own name.
func (g *Graph) checkName(siblings []ident.ID, self ident.ID, name string) error {
	if strings.Contains(name, PathSeparator) {
		return fmt.Errorf("pin name %q: %w", name, ErrInvalidName)
	}
	for _, id := range siblings {
		if id != self && g.pins[id].name == name {
			return fmt.Errorf("pin name %q: %w", name, ErrDuplicateName)
		}
	}
	return nil
}

func (g *Graph) siblings(p *Pin) []ident.ID {
	if parent, ok := g.pins[p.parent]; ok {
		return parent.children
	}
	return *g.nodes[p.node].rootsOf(p.kind)
}

func (g *Graph) newPin(name string, typ PinType, kind PinKind, node, parent ident.ID) *Pin {
	p := &Pin{
		id:     g.allocate(),
		name:   name,
		typ:    typ,
		kind:   kind,
		links:  make(map[ident.ID]struct{}),
		node:   node,
		parent: parent,
	}
	g.pins[p.id] = p
	return p
}
