package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/pingraph/internal/ident"
)

// RemoveNode deletes a node, all of its pin trees and every link touching
// any of those pins.
func (g *Graph) RemoveNode(nodeID ident.ID) error {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nodeNotFound(nodeID)
	}
	pins, links := 0, 0
	for _, roots := range [][]ident.ID{n.inputs, n.outputs} {
		for _, id := range roots {
			p, l := g.dropSubtree(id)
			pins += p
			links += l
		}
	}
	n.inputs, n.outputs = nil, nil
	delete(g.nodes, nodeID)
	g.order = slices.DeleteFunc(g.order, func(id ident.ID) bool { return id == nodeID })

	g.logger.Debug("Node removed.", "node", nodeID.String(), "pins", pins, "links", links)
	return nil
}

// RemovePin deletes a pin, root or nested, along with its subtree and the
// links touching it.
func (g *Graph) RemovePin(pinID ident.ID) error {
	p, ok := g.pins[pinID]
	if !ok {
		return pinNotFound(pinID)
	}
	if p.IsRoot() {
		n := g.nodes[p.node]
		roots := n.rootsOf(p.kind)
		*roots = slices.DeleteFunc(*roots, func(id ident.ID) bool { return id == pinID })
	} else {
		parent := g.mustPin(p.parent)
		parent.children = slices.DeleteFunc(parent.children, func(id ident.ID) bool { return id == pinID })
	}
	g.dropSubtree(pinID)
	return nil
}

// RemoveChild deletes one child of parent and its subtree.
func (g *Graph) RemoveChild(parentID, childID ident.ID) error {
	parent, ok := g.pins[parentID]
	if !ok {
		return pinNotFound(parentID)
	}
	if parent.childIndex(childID) < 0 {
		return fmt.Errorf("pin %s is not a child of %s: %w", childID, parentID, ErrNotFound)
	}
	return g.RemovePin(childID)
}

// RemoveLast deletes parent's last child.
func (g *Graph) RemoveLast(parentID ident.ID) error {
	parent, ok := g.pins[parentID]
	if !ok {
		return pinNotFound(parentID)
	}
	if len(parent.children) == 0 {
		return fmt.Errorf("pin %s has no children: %w", parentID, ErrNotFound)
	}
	return g.RemovePin(parent.children[len(parent.children)-1])
}

// dropSubtree removes a pin and its descendants from the index, along with
// their links. The caller detaches the pin from its parent or node.
func (g *Graph) dropSubtree(pinID ident.ID) (pins, links int) {
	p := g.mustPin(pinID)
	for _, child := range p.children {
		cp, cl := g.dropSubtree(child)
		pins += cp
		links += cl
	}
	for _, linkID := range p.Links() {
		if g.RemoveLink(linkID) {
			links++
		}
	}
	p.children = nil
	delete(g.pins, pinID)
	return pins + 1, links
}
