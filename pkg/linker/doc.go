// Package linker realizes overlay plans in the home directory.
//
// A destination that already exists (file, directory or symlink, dangling
// or not) is a conflict unless it is already a link to the intended
// source. Conflicts are replaced under force, otherwise the user is asked
// and a refusal skips only that link.
package linker
