package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface required for homesick operations.
// Existence checks that must not follow symlinks go through Lstat.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// WriteFileAtomic writes to a temporary sibling and renames it over name
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}

// Prompter asks the user to opt in to a destructive action
type Prompter interface {
	Confirm(message string) (bool, error)
}

// VCS is a version control checkout. Every call runs against the
// directory the repository was opened on.
type VCS interface {
	Clone(ctx context.Context, uri, destination string) error
	Init(ctx context.Context) error
	Pull(ctx context.Context) error
	Push(ctx context.Context) error
	CommitAll(ctx context.Context, message string) error
	SubmoduleInit(ctx context.Context) error
	SubmoduleUpdate(ctx context.Context) error
	Add(ctx context.Context, path string) error
	RemoteAdd(ctx context.Context, name, url string) error
	Config(ctx context.Context, key string) (string, error)
}

// VCSOpener opens the repository rooted at dir
type VCSOpener func(dir string) VCS
