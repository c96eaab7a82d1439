//go:build !windows

package access

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var errUnsupported = errors.New("ownership not supported")

// ownershipSupported reports whether owner and group are reconciled here.
var ownershipSupported = true

// currentOwner reads the owner of path itself, not of what it points to.
func currentOwner(path string) (int, int, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return -1, -1, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return int(st.Uid), int(st.Gid), nil
}
