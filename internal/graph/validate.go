package graph

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/specialistvlad/pingraph/internal/ident"
)

// Validate audits the arena against the structural invariants: unique IDs,
// consistent back references, an index holding exactly the reachable pins,
// unique sibling names, legal links registered on both endpoints, at most
// one link per input, no duplicate pin pairs, and children only under opened
// compound pins. It returns every violation found.
func (g *Graph) Validate() error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	for id := range g.nodes {
		if _, ok := g.pins[id]; ok {
			fail("id %s is used by a node and a pin", id)
		}
		if _, ok := g.links[id]; ok {
			fail("id %s is used by a node and a link", id)
		}
	}
	for id := range g.pins {
		if _, ok := g.links[id]; ok {
			fail("id %s is used by a pin and a link", id)
		}
	}
	next := g.ids.Peek()
	for id := range g.nodes {
		if id >= next {
			fail("node %s is not below the allocator (%s)", id, next)
		}
	}
	for id := range g.pins {
		if id >= next {
			fail("pin %s is not below the allocator (%s)", id, next)
		}
	}
	for id := range g.links {
		if id >= next {
			fail("link %s is not below the allocator (%s)", id, next)
		}
	}
	if len(g.order) != len(g.nodes) {
		fail("node order holds %d entries for %d nodes", len(g.order), len(g.nodes))
	}

	uniqueNames := func(siblings []ident.ID, owner string) {
		seen := make(map[string]bool, len(siblings))
		for _, id := range siblings {
			p, ok := g.pins[id]
			if !ok {
				continue
			}
			if seen[p.name] {
				fail("%s has two pins named %q", owner, p.name)
			}
			seen[p.name] = true
		}
	}

	reached := make(map[ident.ID]bool, len(g.pins))
	var walk func(id ident.ID, node, parent ident.ID, kind PinKind)
	walk = func(id ident.ID, node, parent ident.ID, kind PinKind) {
		p, ok := g.pins[id]
		if !ok {
			fail("pin %s is referenced but not indexed", id)
			return
		}
		if reached[id] {
			fail("pin %s is reachable twice", id)
			return
		}
		reached[id] = true
		if p.node != node || p.parent != parent {
			fail("pin %s has stale back references", id)
		}
		if p.kind != kind {
			fail("pin %s kind %s differs from its tree (%s)", id, p.kind, kind)
		}
		if len(p.children) > 0 && (!p.typ.Compound() || !p.opened) {
			fail("pin %s (%s) has children but was never opened as a compound pin", id, p.typ)
		}
		if p.expanded && !p.typ.Compound() {
			fail("leaf pin %s is marked expanded", id)
		}
		uniqueNames(p.children, fmt.Sprintf("pin %s", id))
		for _, c := range p.children {
			walk(c, node, id, kind)
		}
	}
	for _, id := range g.order {
		n, ok := g.nodes[id]
		if !ok {
			fail("node order references missing node %s", id)
			continue
		}
		if n.graph != g {
			fail("node %s points at another graph", id)
		}
		uniqueNames(n.inputs, fmt.Sprintf("inputs of node %s", id))
		uniqueNames(n.outputs, fmt.Sprintf("outputs of node %s", id))
		for _, r := range n.inputs {
			walk(r, id, ident.Invalid, Input)
		}
		for _, r := range n.outputs {
			walk(r, id, ident.Invalid, Output)
		}
	}
	for id := range g.pins {
		if !reached[id] {
			fail("pin %s is indexed but unreachable", id)
		}
	}

	pairs := make(map[[2]ident.ID]ident.ID, len(g.links))
	for id, l := range g.links {
		src, okS := g.pins[l.src]
		dst, okD := g.pins[l.dst]
		if !okS || !okD {
			fail("link %s has a dangling endpoint", id)
			continue
		}
		if src.kind != Output || dst.kind != Input {
			fail("link %s runs %s -> %s", id, src.kind, dst.kind)
		}
		if src.node == dst.node {
			fail("link %s joins pins of node %s", id, src.node)
		}
		if _, ok := src.links[id]; !ok {
			fail("link %s missing from source pin %s", id, src.id)
		}
		if _, ok := dst.links[id]; !ok {
			fail("link %s missing from destination pin %s", id, dst.id)
		}
		key := [2]ident.ID{min(l.src, l.dst), max(l.src, l.dst)}
		if prev, dup := pairs[key]; dup {
			fail("links %s and %s join the same pins", prev, id)
		}
		pairs[key] = id
	}
	for id, p := range g.pins {
		for linkID := range p.links {
			l, ok := g.links[linkID]
			if !ok {
				fail("pin %s lists removed link %s", id, linkID)
				continue
			}
			if l.Other(id) == ident.Invalid {
				fail("pin %s lists link %s it is not an endpoint of", id, linkID)
			}
		}
		if p.kind == Input && len(p.links) > 1 {
			fail("input pin %s has %d incoming links", id, len(p.links))
		}
	}

	return result.ErrorOrNil()
}
