package overlay

import (
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/arthur-debert/homesick/pkg/types"
)

// EntrySet is a manifest as an ordered, duplicate-free set of paths
// relative to a castle's home subtree
type EntrySet struct {
	ordered []string
	members map[string]struct{}
}

// NewEntrySet normalizes manifest entries and drops duplicates, keeping
// the first occurrence. Entries naming the home subtree itself are
// ignored.
func NewEntrySet(entries []string) EntrySet {
	s := EntrySet{members: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		entry = paths.CleanRelative(entry)
		if entry == "" || entry == "." {
			continue
		}
		if _, ok := s.members[entry]; ok {
			continue
		}
		s.members[entry] = struct{}{}
		s.ordered = append(s.ordered, entry)
	}
	return s
}

// Entries returns the entries in manifest order
func (s EntrySet) Entries() []string {
	return append([]string(nil), s.ordered...)
}

// Has reports whether rel is a manifest entry
func (s EntrySet) Has(rel string) bool {
	_, ok := s.members[rel]
	return ok
}

// hasEntryBelow reports whether any entry lies strictly under rel
func (s EntrySet) hasEntryBelow(rel string) bool {
	prefix := rel + "/"
	for _, entry := range s.ordered {
		if strings.HasPrefix(entry, prefix) {
			return true
		}
	}
	return false
}

// Classifier answers questions about castle paths against a manifest.
// Paths are slash separated and relative to the castle's home subtree.
type Classifier struct {
	fs      types.FS
	root    string
	entries EntrySet
}

// NewClassifier creates a classifier over the home subtree at root
func NewClassifier(fsys types.FS, root string, entries EntrySet) *Classifier {
	return &Classifier{fs: fsys, root: root, entries: entries}
}

// IsMergePoint reports whether rel is itself a manifest entry
func (c *Classifier) IsMergePoint(rel string) bool {
	return c.entries.Has(rel)
}

// IsNestedInManifest reports whether any existing path strictly below rel
// is a manifest entry. The walk does not descend into symlinked
// directories.
func (c *Classifier) IsNestedInManifest(rel string) (bool, error) {
	if !c.entries.hasEntryBelow(rel) {
		return false, nil
	}
	return c.walkForEntry(rel)
}

func (c *Classifier) walkForEntry(rel string) (bool, error) {
	info, err := c.fs.Lstat(c.abs(rel))
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}

	children, err := c.fs.ReadDir(c.abs(rel))
	if err != nil {
		return false, err
	}
	for _, child := range children {
		childRel := path.Join(rel, child.Name())
		if c.entries.Has(childRel) {
			return true, nil
		}
		if child.IsDir() && c.entries.hasEntryBelow(childRel) {
			found, err := c.walkForEntry(childRel)
			if err != nil || found {
				return found, err
			}
		}
	}
	return false, nil
}

// IsDeepestEntry reports whether rel is a manifest entry naming a
// directory without subdirectories. Symlinks are followed.
func (c *Classifier) IsDeepestEntry(rel string) (bool, error) {
	info, err := c.fs.Stat(c.abs(rel))
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}

	children, err := c.fs.ReadDir(c.abs(rel))
	if err != nil {
		return false, err
	}
	for _, child := range children {
		childInfo, err := c.fs.Stat(c.abs(path.Join(rel, child.Name())))
		if err != nil {
			// dangling link, not a directory
			continue
		}
		if childInfo.IsDir() {
			return false, nil
		}
	}
	return c.entries.Has(rel), nil
}

func (c *Classifier) abs(rel string) string {
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
