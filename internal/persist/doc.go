// Package persist converts graphs to and from their on-disk document form.
//
// Node IDs are written verbatim. Pins and links get fresh IDs on every load,
// so links are stored as pin paths: the owning node's ID followed by the pin
// names from the root pin down to the endpoint, joined with "/".
package persist
