// Package store abstracts the versioned file store the portal persists
// submissions into. Files are addressed by path and guarded by an opaque
// per-file revision marker: every write that targets an existing file
// must carry the revision observed at read time, and the store rejects
// the write if the marker has gone stale.
package store

import "context"

// File is the content of one stored file together with its revision
// marker at read time.
type File struct {
	Content  []byte
	Revision string
}

// Entry describes one item in a directory listing.
type Entry struct {
	Name     string
	Path     string
	Type     string // "file" or "dir"
	Revision string // empty for directories
}

// Client is the contract every store backend implements.
//
// Put with an empty revision is a create: it fails with a ConflictError
// if the path already exists. Put with a revision is a conditional
// update: it fails with a ConflictError if the file changed since the
// revision was read. Delete always requires a revision.
type Client interface {
	Get(ctx context.Context, path string) (*File, error)
	List(ctx context.Context, dir string) ([]Entry, error)
	Put(ctx context.Context, path string, content []byte, message, revision string) error
	Delete(ctx context.Context, path, message, revision string) error
}

// Mover is implemented by backends with a native atomic rename. Status
// changes use it when available; backends without it fall back to
// delete-then-create, which leaves a visible gap if the second step
// fails.
type Mover interface {
	Move(ctx context.Context, oldPath, newPath, message, revision string) error
}
