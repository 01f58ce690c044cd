// Package manifest maintains the merge-point manifest of a castle.
//
// The manifest is a text file next to the castle's home subtree holding one
// path per line, each relative to the home subtree. A listed directory is a
// merge point: its immediate children are linked one by one instead of the
// directory being linked as a whole. Entries are unique; insertion order is
// kept so planning output is reproducible.
package manifest
