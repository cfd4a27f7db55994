// Package graph is the id-addressable model behind the node editor: nodes
// carrying trees of typed input and output pins, and links from output pins
// to input pins.
//
// # Arena
//
// A Graph owns every Node, Pin and Link in maps keyed by ident.ID. All cross
// references (pin to node, pin to parent, pin to children, pin to incident
// links, link to endpoints) are IDs into those maps rather than pointers, so
// removing an object is a matter of deleting its key. The pin map doubles as
// the flattened id to pin index used for cross-tree lookup; it always holds
// exactly the pins reachable from the node collection.
//
// # Mutation discipline
//
// Objects are only created and destroyed through Graph methods so that ID
// allocation and index registration happen together with the structural
// change. Removal cascades: a node takes its pin trees with it, a pin takes
// its subtree, and every link touching a removed pin goes too.
//
// The frame loop walks nodes and pins in place. Edits triggered by input found
// during that walk go through Defer and are applied by DrainDeferred once the
// walk is over. Edits that happen strictly before or after the walk (delete
// requests, loads) may call the mutators directly.
//
// # Links
//
// TrySpawnLink normalises endpoint order by pin kind (output is always the
// source) and rejects self-node links, same-kind links and duplicates. An
// input pin accepts at most one link; connecting a new one evicts the old.
//
// # Reload
//
// A reload builds a complete candidate Graph and hands it to ReplaceWith,
// which swaps state while the live Graph keeps its name, path and identity.
//
// # Thread-Safety
//
// None. A Graph belongs to the single goroutine that runs its frames.
package graph
