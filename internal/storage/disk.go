// Package storage persists uploaded bytes as flat files under a single
// upload root shared by all users. Isolation between users is enforced
// entirely by the ownership check in the vault service, so stored names
// must never incorporate untrusted input — the service always passes
// generated `<uuid>.<ext>` names, and this package rejects anything that
// could escape the root.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotExist is returned by Open when the named object is absent.
// Callers map it to the registry/disk inconsistency error.
var ErrNotExist = errors.New("storage: object does not exist")

// Disk is a local-filesystem object store rooted at a single directory.
type Disk struct {
	root string
}

// NewDisk creates the upload root if needed and returns a store over it.
func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating upload root %s: %w", root, err)
	}
	return &Disk{root: root}, nil
}

// Save writes the object's bytes under name. The write goes to a temporary
// file first and is renamed into place, so a crash mid-write never leaves a
// half-written object under a registered name.
func (d *Disk) Save(name string, r io.Reader) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: creating temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: writing object %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: closing object %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: placing object %s: %w", name, err)
	}

	return nil
}

// Open returns a reader over the named object, or ErrNotExist.
func (d *Disk) Open(name string) (io.ReadCloser, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("storage: opening object %s: %w", name, err)
	}
	return f, nil
}

// Remove deletes the named object. Removing an absent object is not an
// error — delete must be idempotent for the reconciliation sweep.
func (d *Disk) Remove(name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: removing object %s: %w", name, err)
	}
	return nil
}

// List returns the names of all stored objects. Temp files from in-flight
// saves are excluded.
func (d *Disk) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("storage: listing upload root: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".upload-") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// path validates name and joins it onto the root. Any name containing a
// separator or parent reference is rejected outright — a traversal bug
// here would be a cross-user data leak.
func (d *Disk) path(name string) (string, error) {
	if name == "" ||
		strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..") {
		return "", fmt.Errorf("storage: invalid object name %q", name)
	}
	return filepath.Join(d.root, name), nil
}
