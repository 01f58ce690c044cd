// Package overlay decides which paths of a castle's home subtree are
// projected into the home directory.
//
// Planning is pure: the Planner only lists directories and returns a Plan.
// Creating directories and links is left to the linker package. Manifest
// entries are merge points whose immediate children are linked one by
// one; every other top-level entry of the castle is linked as a whole
// unless a merge point lies somewhere beneath it.
package overlay
