package graph

import "github.com/specialistvlad/pingraph/internal/ident"

// Link connects one output pin (source) to one input pin (destination).
type Link struct {
	id  ident.ID
	src ident.ID
	dst ident.ID
}

func (l *Link) ID() ident.ID          { return l.id }
func (l *Link) Source() ident.ID      { return l.src }
func (l *Link) Destination() ident.ID { return l.dst }

// Other returns the endpoint opposite to pin, or ident.Invalid when pin is
// not an endpoint of l.
func (l *Link) Other(pin ident.ID) ident.ID {
	switch pin {
	case l.src:
		return l.dst
	case l.dst:
		return l.src
	default:
		return ident.Invalid
	}
}
