package filesystem

import (
	"os"
	"sync"

	"github.com/arthur-debert/dolink/pkg/types"
)

// osFS implements types.LinkFS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS link filesystem implementation
func NewOS() types.LinkFS {
	return &osFS{}
}

var (
	defaultFS   types.LinkFS
	defaultOnce sync.Once
)

// Default returns the process-wide link filesystem.
func Default() types.LinkFS {
	defaultOnce.Do(func() {
		defaultFS = NewOS()
	})
	return defaultFS
}

func (o *osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (o *osFS) IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

func (o *osFS) ReadLink(path string) (string, error) {
	return os.Readlink(path)
}

func (o *osFS) CreateSymlink(to, targetFile string) error {
	return os.Symlink(to, targetFile)
}

func (o *osFS) CreateHardLink(to, targetFile string) error {
	return os.Link(to, targetFile)
}

func (o *osFS) InodeOf(path string) (int64, error) {
	ino, err := inodeOf(path)
	if err != nil {
		return 0, err
	}
	return WrapInode(ino), nil
}

func (o *osFS) Unlink(path string) error {
	return os.Remove(path)
}

func (o *osFS) Delete(path string) error {
	return os.Remove(path)
}
