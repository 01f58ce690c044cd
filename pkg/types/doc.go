// Package types defines the interfaces shared across homesick: the
// filesystem seam, version control, confirmations and status reporting.
package types
