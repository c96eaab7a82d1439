package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempTree is a scratch directory for tests that need real link semantics.
type TempTree struct {
	Root string
	t    *testing.T
}

// NewTempTree creates a TempTree rooted in t.TempDir().
func NewTempTree(t *testing.T) *TempTree {
	t.Helper()
	return &TempTree{Root: t.TempDir(), t: t}
}

// Path joins elements onto the tree root.
func (tt *TempTree) Path(elem ...string) string {
	return filepath.Join(append([]string{tt.Root}, elem...)...)
}

// File writes a regular file and returns its path.
func (tt *TempTree) File(name, content string) string {
	tt.t.Helper()
	p := tt.Path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		tt.t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		tt.t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// Symlink creates name pointing at dest and returns the link path.
func (tt *TempTree) Symlink(dest, name string) string {
	tt.t.Helper()
	p := tt.Path(name)
	if err := os.Symlink(dest, p); err != nil {
		tt.t.Fatalf("symlink %s -> %s: %v", p, dest, err)
	}
	return p
}

// HardLink creates name sharing an inode with existing and returns its path.
func (tt *TempTree) HardLink(existing, name string) string {
	tt.t.Helper()
	p := tt.Path(name)
	if err := os.Link(existing, p); err != nil {
		tt.t.Fatalf("link %s -> %s: %v", p, existing, err)
	}
	return p
}

// Exists reports whether anything, including a dangling link, is at path.
func (tt *TempTree) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Readlink returns the raw target of a link, failing the test on error.
func (tt *TempTree) Readlink(path string) string {
	tt.t.Helper()
	dest, err := os.Readlink(path)
	if err != nil {
		tt.t.Fatalf("readlink %s: %v", path, err)
	}
	return dest
}
