package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/pingraph/internal/ident"
)

// VisibleAnchor returns the pin a link touching pinID should be drawn
// against: the outermost collapsed ancestor when one exists, otherwise the
// pin itself.
func (g *Graph) VisibleAnchor(pinID ident.ID) ident.ID {
	p, ok := g.pins[pinID]
	if !ok {
		return ident.Invalid
	}
	anchor := p.id
	for p.parent.IsValid() {
		p = g.mustPin(p.parent)
		if !p.expanded {
			anchor = p.id
		}
	}
	return anchor
}

// Hidden reports whether some ancestor of pinID is collapsed.
func (g *Graph) Hidden(pinID ident.ID) bool {
	return g.VisibleAnchor(pinID) != pinID
}

// PathSeparator joins the segments of a persisted pin path. Pin names may
// not contain it.
const PathSeparator = "/"

// PinPath returns the owning node and the pin names from the root pin down
// to pinID.
func (g *Graph) PinPath(pinID ident.ID) (ident.ID, []string, error) {
	p, ok := g.pins[pinID]
	if !ok {
		return ident.Invalid, nil, pinNotFound(pinID)
	}
	var names []string
	for {
		names = append(names, p.name)
		if !p.parent.IsValid() {
			break
		}
		p = g.mustPin(p.parent)
	}
	slices.Reverse(names)
	return p.node, names, nil
}

// ResolvePath walks from a node's root pins of the given kind down through
// children, matching one name per level. The first sibling with a matching
// name wins.
func (g *Graph) ResolvePath(nodeID ident.ID, kind PinKind, names []string) (*Pin, error) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil, nodeNotFound(nodeID)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("empty pin path under node %s: %w", nodeID, ErrNotFound)
	}
	candidates := *n.rootsOf(kind)
	var found *Pin
	for _, name := range names {
		found = nil
		for _, id := range candidates {
			if p := g.mustPin(id); p.name == name {
				found = p
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("no %s pin %q under node %s: %w", kind, name, nodeID, ErrNotFound)
		}
		candidates = found.children
	}
	return found, nil
}
