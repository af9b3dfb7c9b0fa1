package store

import (
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"microhub/internal/core"
)

// FS is a filesystem-backed store. Revisions are git-style blob digests
// of the file content, so a revision read from one process compares
// equal in another. A flock-guarded lock file beside the base directory
// serializes mutations, making every conditional write a real
// compare-and-swap rather than a check followed by a racy write.
type FS struct {
	baseDir  string
	lockPath string
}

// NewFS creates a filesystem store rooted at baseDir.
func NewFS(baseDir string) *FS {
	return &FS{
		baseDir:  baseDir,
		lockPath: baseDir + ".lock",
	}
}

// Revision computes the revision marker for a blob of content.
// Same construction git uses for blob objects.
func Revision(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (s *FS) Get(ctx context.Context, path string) (*File, error) {
	data, err := os.ReadFile(s.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &core.NotFoundError{Path: path, Err: err}
		}
		return nil, &core.StoreError{Op: "get", Path: path, Err: err}
	}
	return &File{Content: data, Revision: Revision(data)}, nil
}

func (s *FS) List(ctx context.Context, dir string) ([]Entry, error) {
	entries, err := os.ReadDir(s.fullPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &core.NotFoundError{Path: dir, Err: err}
		}
		return nil, &core.StoreError{Op: "list", Path: dir, Err: err}
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		entry := Entry{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Type: "file",
		}
		if e.IsDir() {
			entry.Type = "dir"
		} else if data, err := os.ReadFile(s.fullPath(entry.Path)); err == nil {
			entry.Revision = Revision(data)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *FS) Put(ctx context.Context, path string, content []byte, message, revision string) error {
	unlock, err := s.acquireLock()
	if err != nil {
		return &core.StoreError{Op: "put", Path: path, Err: err}
	}
	defer unlock()

	full := s.fullPath(path)
	current, err := os.ReadFile(full)
	switch {
	case err == nil:
		if revision == "" {
			return &core.ConflictError{Path: path, Message: "file already exists"}
		}
		if Revision(current) != revision {
			return &core.ConflictError{Path: path, Message: "stale revision"}
		}
	case os.IsNotExist(err):
		if revision != "" {
			return &core.NotFoundError{Path: path, Err: err}
		}
	default:
		return &core.StoreError{Op: "put", Path: path, Err: err}
	}

	if err := s.writeAtomic(full, content); err != nil {
		return &core.StoreError{Op: "put", Path: path, Err: err}
	}
	return nil
}

func (s *FS) Delete(ctx context.Context, path, message, revision string) error {
	unlock, err := s.acquireLock()
	if err != nil {
		return &core.StoreError{Op: "delete", Path: path, Err: err}
	}
	defer unlock()

	full := s.fullPath(path)
	current, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return &core.NotFoundError{Path: path, Err: err}
		}
		return &core.StoreError{Op: "delete", Path: path, Err: err}
	}
	if revision == "" || Revision(current) != revision {
		return &core.ConflictError{Path: path, Message: "stale revision"}
	}

	if err := os.Remove(full); err != nil {
		return &core.StoreError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// Move renames a file in a single step under the lock, so a status
// change never leaves the record invisible.
func (s *FS) Move(ctx context.Context, oldPath, newPath, message, revision string) error {
	unlock, err := s.acquireLock()
	if err != nil {
		return &core.StoreError{Op: "move", Path: oldPath, Err: err}
	}
	defer unlock()

	current, err := os.ReadFile(s.fullPath(oldPath))
	if err != nil {
		if os.IsNotExist(err) {
			return &core.NotFoundError{Path: oldPath, Err: err}
		}
		return &core.StoreError{Op: "move", Path: oldPath, Err: err}
	}
	if revision == "" || Revision(current) != revision {
		return &core.ConflictError{Path: oldPath, Message: "stale revision"}
	}
	if _, err := os.Stat(s.fullPath(newPath)); err == nil {
		return &core.ConflictError{Path: newPath, Message: "file already exists"}
	}

	if err := os.MkdirAll(filepath.Dir(s.fullPath(newPath)), 0755); err != nil {
		return &core.StoreError{Op: "move", Path: newPath, Err: err}
	}
	if err := os.Rename(s.fullPath(oldPath), s.fullPath(newPath)); err != nil {
		return &core.StoreError{Op: "move", Path: oldPath, Err: err}
	}
	return nil
}

func (s *FS) fullPath(path string) string {
	return filepath.Join(s.baseDir, filepath.Clean("/"+path))
}

// writeAtomic writes content to a temp file in the target directory and
// renames it into place, so readers never observe a half-written file.
func (s *FS) writeAtomic(full string, content []byte) error {
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// acquireLock takes an exclusive flock on the store's lock file for the
// duration of one mutation. Blocks until the lock is free.
func (s *FS) acquireLock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
	}, nil
}
