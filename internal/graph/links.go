package graph

import (
	"github.com/specialistvlad/pingraph/internal/ident"
)

// TrySpawnLink connects two pins. The order of a and b does not matter: the
// output pin becomes the source and the input pin the destination. A
// rejected request leaves the graph unchanged and returns a *LinkRejection.
// If the destination already has a link, that link is removed first.
func (g *Graph) TrySpawnLink(a, b ident.ID) (*Link, error) {
	reject := func(reason error) (*Link, error) {
		g.logger.Debug("Link rejected.", "a", a.String(), "b", b.String(), "reason", reason)
		return nil, &LinkRejection{A: a, B: b, Reason: reason}
	}

	pa, okA := g.pins[a]
	pb, okB := g.pins[b]
	if !okA || !okB {
		return reject(ErrNotFound)
	}
	if pa.node == pb.node {
		return reject(ErrSameNode)
	}
	if pa.kind == pb.kind {
		return reject(ErrSameKind)
	}
	src, dst := pa, pb
	if src.kind == Input {
		src, dst = dst, src
	}
	if g.IsLinked(src.id, dst.id) {
		return reject(ErrDuplicateLink)
	}

	for _, prior := range dst.Links() {
		g.RemoveLink(prior)
		g.logger.Debug("Link evicted from destination.", "link", prior.String(), "pin", dst.id.String())
	}

	l := &Link{id: g.allocate(), src: src.id, dst: dst.id}
	g.links[l.id] = l
	src.links[l.id] = struct{}{}
	dst.links[l.id] = struct{}{}
	return l, nil
}

// RemoveLink deletes a link and unregisters it from both endpoints. It
// returns false when the link was already gone, which happens when several
// cascades reach the same link.
func (g *Graph) RemoveLink(linkID ident.ID) bool {
	l, ok := g.links[linkID]
	if !ok {
		return false
	}
	if p, ok := g.pins[l.src]; ok {
		delete(p.links, linkID)
	}
	if p, ok := g.pins[l.dst]; ok {
		delete(p.links, linkID)
	}
	delete(g.links, linkID)
	return true
}

// IsLinked reports whether a link joins a and b in either direction. It
// scans the incident set of whichever pin has fewer links.
func (g *Graph) IsLinked(a, b ident.ID) bool {
	pa, okA := g.pins[a]
	pb, okB := g.pins[b]
	if !okA || !okB {
		return false
	}
	scan, other := pa, pb
	if len(pb.links) < len(pa.links) {
		scan, other = pb, pa
	}
	for linkID := range scan.links {
		if g.links[linkID].Other(scan.id) == other.id {
			return true
		}
	}
	return false
}

// IncomingLink returns the link feeding an input pin, if any.
func (g *Graph) IncomingLink(pinID ident.ID) (*Link, bool) {
	p, ok := g.pins[pinID]
	if !ok || p.kind != Input {
		return nil, false
	}
	for linkID := range p.links {
		return g.links[linkID], true
	}
	return nil, false
}
