// Package paths provides centralized path handling for homesick.
//
// The home directory and the repositories root are resolved once, from
// configuration, and handed to every component through a *Paths value.
// Castle layout:
//
//	<repos>/<castle>/home/...     castle content
//	<repos>/<castle>/.manifest    merge-point manifest
package paths
