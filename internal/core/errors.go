package core

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a store path does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ConflictError reports a lost optimistic-concurrency race: the revision
// carried by a write no longer matches the file, or a create hit a path
// that already exists. The caller should re-read and retry.
type ConflictError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at %s: %s", e.Path, e.Message)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// StoreError represents an unexpected failure talking to the backing
// store (network, permissions, anything not covered by the kinds above).
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError anywhere in its chain.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
