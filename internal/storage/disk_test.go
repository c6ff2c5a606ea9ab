package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDisk(t *testing.T) *Disk {
	t.Helper()
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk() error = %v", err)
	}
	return d
}

func TestSaveOpen_RoundTrip(t *testing.T) {
	d := newTestDisk(t)
	content := []byte("not really a png")

	if err := d.Save("abc.png", bytes.NewReader(content)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := d.Open("abc.png")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round trip content = %q, want %q", got, content)
	}
}

func TestOpen_Missing(t *testing.T) {
	d := newTestDisk(t)

	_, err := d.Open("nope.png")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("Open() error = %v, want ErrNotExist", err)
	}
}

func TestRemove_IsIdempotent(t *testing.T) {
	d := newTestDisk(t)

	if err := d.Save("gone.png", strings.NewReader("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := d.Remove("gone.png"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	// Removing a missing object is not an error.
	if err := d.Remove("gone.png"); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}

	if _, err := d.Open("gone.png"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Open() after Remove = %v, want ErrNotExist", err)
	}
}

func TestList_SkipsTempFiles(t *testing.T) {
	root := t.TempDir()
	d, err := NewDisk(root)
	if err != nil {
		t.Fatalf("NewDisk() error = %v", err)
	}

	if err := d.Save("a.png", strings.NewReader("a")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := d.Save("b.gif", strings.NewReader("b")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// Simulate an in-flight upload's temp file.
	if err := os.WriteFile(filepath.Join(root, ".upload-123"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	names, err := d.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 2 {
		t.Errorf("List() = %v, want 2 stored objects", names)
	}
	for _, n := range names {
		if strings.HasPrefix(n, ".upload-") {
			t.Errorf("List() leaked temp file %q", n)
		}
	}
}

func TestPathTraversal_Rejected(t *testing.T) {
	d := newTestDisk(t)

	bad := []string{
		"",
		"../escape.png",
		"..",
		"nested/name.png",
		`windows\name.png`,
		"/etc/passwd",
	}

	for _, name := range bad {
		if err := d.Save(name, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) should reject unsafe names", name)
		}
		if _, err := d.Open(name); err == nil || errors.Is(err, ErrNotExist) {
			t.Errorf("Open(%q) should reject unsafe names outright", name)
		}
		if err := d.Remove(name); err == nil {
			t.Errorf("Remove(%q) should reject unsafe names", name)
		}
	}
}
