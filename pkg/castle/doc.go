// Package castle manages the castles cloned under the repositories root:
// discovering them, cloning from the supported source shapes, and running
// version control operations on them.
package castle
