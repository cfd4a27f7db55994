// Package deferred holds work discovered during a frame's traversal that must
// not run until the traversal is over.
//
// The frame loop walks node, pin and link containers in place. Inserting into
// or erasing from them mid-walk is not allowed, so structural edits found
// during the walk are queued here and applied at one safe point per frame.
//
// Two containers exist because their lifetimes differ:
//
//   - Queue is a FIFO of one-shot actions. Drain runs each queued action once,
//     in order. Actions queued while a drain is in progress wait for the next
//     drain; a drain never re-enters itself.
//   - Registry maps a stable key to an action that runs every frame until the
//     key is unregistered. Inline rename popups live here because they keep
//     rendering across many frames.
package deferred
