// Package config handles configuration management for homesick.
//
// Layers are merged in increasing precedence: embedded defaults, the user
// config file, the user env file, HOMESICK_* environment variables, and
// command-line flags.
package config
