package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arthur-debert/dolink/pkg/filesystem"
	"github.com/arthur-debert/dolink/pkg/types"
)

// maxLinkHops bounds link resolution, like ELOOP on a real system.
const maxLinkHops = 40

// MemoryFS implements types.LinkFS with in-memory storage
type MemoryFS struct {
	mu      sync.RWMutex
	entries map[string]*entry
	nextIno uint64

	// Error injection, keyed by op + path
	errors map[string]error

	// Mutations records every successful mutating call, in order
	mutations []string
}

// entry is a directory entry. Hard links share the same *inode.
type entry struct {
	isLink   bool
	linkDest string
	node     *inode
}

type inode struct {
	ino uint64
}

// NewMemoryFS creates a new in-memory link filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		entries: make(map[string]*entry),
		nextIno: 100,
		errors:  make(map[string]error),
	}
}

// Verify interface compliance
var _ types.LinkFS = (*MemoryFS)(nil)

func clean(path string) string {
	return filepath.Clean(path)
}

// AddFile creates a regular file with a fresh inode.
func (m *MemoryFS) AddFile(path string) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextIno++
	m.entries[clean(path)] = &entry{node: &inode{ino: m.nextIno}}
	return m
}

// AddFileWithInode creates a regular file with a chosen inode number.
func (m *MemoryFS) AddFileWithInode(path string, ino uint64) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[clean(path)] = &entry{node: &inode{ino: ino}}
	return m
}

// AddSymlink creates a symbolic link; dest may be dangling.
func (m *MemoryFS) AddSymlink(path, dest string) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[clean(path)] = &entry{isLink: true, linkDest: dest}
	return m
}

// AddHardLink points path at the same inode as existing.
func (m *MemoryFS) AddHardLink(path, existing string) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clean(existing)]
	if !ok || e.isLink {
		panic(fmt.Sprintf("testutil: %s is not a regular file", existing))
	}
	m.entries[clean(path)] = &entry{node: e.node}
	return m
}

// FailOn makes the named operation fail for path. op is one of
// "readlink", "symlink", "link", "inode", "unlink", "delete".
func (m *MemoryFS) FailOn(op, path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[op+":"+clean(path)] = err
	return m
}

// Mutations returns the successful mutating calls, in order.
func (m *MemoryFS) Mutations() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.mutations))
	copy(out, m.mutations)
	return out
}

// Paths lists every entry, sorted.
func (m *MemoryFS) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for p := range m.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (m *MemoryFS) injected(op, path string) error {
	return m.errors[op+":"+clean(path)]
}

// resolve follows links from path and returns the final regular entry.
func (m *MemoryFS) resolve(path string) (*entry, error) {
	p := clean(path)
	for i := 0; i < maxLinkHops; i++ {
		e, ok := m.entries[p]
		if !ok {
			return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
		}
		if !e.isLink {
			return e, nil
		}
		dest := e.linkDest
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(p), dest)
		}
		p = clean(dest)
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fmt.Errorf("too many levels of symbolic links")}
}

func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.resolve(path)
	return err == nil
}

func (m *MemoryFS) IsSymlink(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[clean(path)]
	return ok && e.isLink
}

func (m *MemoryFS) ReadLink(path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected("readlink", path); err != nil {
		return "", err
	}
	e, ok := m.entries[clean(path)]
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: fs.ErrNotExist}
	}
	if !e.isLink {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: fs.ErrInvalid}
	}
	return e.linkDest, nil
}

func (m *MemoryFS) CreateSymlink(to, targetFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("symlink", targetFile); err != nil {
		return err
	}
	if _, ok := m.entries[clean(targetFile)]; ok {
		return &fs.PathError{Op: "symlink", Path: targetFile, Err: fs.ErrExist}
	}
	m.entries[clean(targetFile)] = &entry{isLink: true, linkDest: to}
	m.mutations = append(m.mutations, "symlink "+to+" "+targetFile)
	return nil
}

func (m *MemoryFS) CreateHardLink(to, targetFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("link", targetFile); err != nil {
		return err
	}
	src, err := m.resolve(to)
	if err != nil {
		return &fs.PathError{Op: "link", Path: to, Err: fs.ErrNotExist}
	}
	if _, ok := m.entries[clean(targetFile)]; ok {
		return &fs.PathError{Op: "link", Path: targetFile, Err: fs.ErrExist}
	}
	m.entries[clean(targetFile)] = &entry{node: src.node}
	m.mutations = append(m.mutations, "link "+to+" "+targetFile)
	return nil
}

func (m *MemoryFS) InodeOf(path string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected("inode", path); err != nil {
		return 0, err
	}
	e, err := m.resolve(path)
	if err != nil {
		return 0, err
	}
	return filesystem.WrapInode(e.node.ino), nil
}

func (m *MemoryFS) Unlink(path string) error {
	return m.remove("unlink", path)
}

func (m *MemoryFS) Delete(path string) error {
	return m.remove("delete", path)
}

func (m *MemoryFS) remove(op, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(op, path); err != nil {
		return err
	}
	if _, ok := m.entries[clean(path)]; !ok {
		return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	delete(m.entries, clean(path))
	m.mutations = append(m.mutations, op+" "+path)
	return nil
}
