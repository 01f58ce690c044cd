// Package filesystem provides filesystem implementations for homesick.
//
// Every implementation is backed by afero. The OS filesystem supports
// symlinks and Lstat; the in-memory filesystem does not, and is used to
// exercise code that only lists and stats directories.
package filesystem
