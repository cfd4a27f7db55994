// Package render drives one editor frame over a graph.
//
// A frame draws every node and visible pin on a Surface, draws each link
// against the visible anchors of its endpoints, runs the persistent popup
// actions, and then handles the gestures the surface reported. Structural
// edits found while drawing are queued on the graph and applied when the
// frame drains its deferred queue, after everything has been drawn.
package render
