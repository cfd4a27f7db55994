package persist

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
)

const pathSep = graph.PathSeparator

// FormatPath joins a node ID and pin names into a pin path.
func FormatPath(node ident.ID, names []string) string {
	return node.String() + pathSep + strings.Join(names, pathSep)
}

// ParsePath splits a pin path into the node ID and the pin names.
func ParsePath(path string) (ident.ID, []string, error) {
	segments := strings.Split(path, pathSep)
	if len(segments) < 2 {
		return ident.Invalid, nil, fmt.Errorf("pin path %q has no pin names: %w", path, graph.ErrNotFound)
	}
	node, err := ident.Parse(segments[0])
	if err != nil {
		return ident.Invalid, nil, fmt.Errorf("pin path %q: %w: %w", path, err, graph.ErrNotFound)
	}
	return node, segments[1:], nil
}

// PinPath builds the persisted path of a live pin by walking its parents.
func PinPath(g *graph.Graph, pinID ident.ID) (string, error) {
	node, names, err := g.PinPath(pinID)
	if err != nil {
		return "", err
	}
	return FormatPath(node, names), nil
}

// ResolvePath finds the pin a path points at. Only pins of the given kind
// are searched.
func ResolvePath(g *graph.Graph, path string, kind graph.PinKind) (*graph.Pin, error) {
	node, names, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return g.ResolvePath(node, kind, names)
}
