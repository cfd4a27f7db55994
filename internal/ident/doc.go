// Package ident issues the object identifiers shared by every node, pin and
// link of one graph.
//
// A single counter backs all three categories, so a raw ID is never ambiguous
// inside a graph: the same number cannot name both a pin and a link. The
// counter only moves forward. When a document is loaded, every persisted ID is
// fed to Observe so that objects created afterwards land strictly above
// anything present in the file.
package ident
