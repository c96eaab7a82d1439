package types

// LinkFS is the OS link abstraction the engine is written against.
// Platform selection happens once per process; callers never see which
// implementation they hold.
type LinkFS interface {
	// Exists follows links, like stat. A dangling symlink does not exist.
	Exists(path string) bool

	// IsSymlink does not follow links, like lstat.
	IsSymlink(path string) bool

	// ReadLink returns the raw target stored in a symbolic link.
	ReadLink(path string) (string, error)

	// Link creation
	CreateSymlink(to, targetFile string) error
	CreateHardLink(to, targetFile string) error

	// InodeOf returns the signed, wrapped inode number of path, following links.
	InodeOf(path string) (int64, error)

	// Unlink removes a directory entry before it is replaced.
	Unlink(path string) error

	// Delete removes a link when the resource is deleted.
	Delete(path string) error
}

// AccessControl reconciles ownership of a created link.
type AccessControl interface {
	RequiresChanges(targetFile string) (bool, error)
	DescribeChanges() string
	ApplyChanges(targetFile string) error
}
