// Package inspect reads the current on-disk state of a link into a
// types.LinkSnapshot. It never mutates the filesystem.
package inspect

import (
	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/types"
)

// Inspector builds snapshots through a types.LinkFS.
type Inspector struct {
	fs types.LinkFS
}

// New creates an Inspector.
func New(fs types.LinkFS) *Inspector {
	return &Inspector{fs: fs}
}

// Inspect returns the observed state for desc. Absence is reported through
// an empty ResolvedTo; only unexpected primitive failures return an error.
func (i *Inspector) Inspect(desc types.LinkDescriptor) (types.LinkSnapshot, error) {
	logger := logging.GetLogger("inspect").With().
		Str("target", desc.TargetFile).
		Str("type", desc.LinkType.String()).
		Logger()

	snap := types.LinkSnapshot{
		TargetFile: desc.TargetFile,
		LinkType:   desc.LinkType,
	}

	var err error
	switch desc.LinkType {
	case types.LinkSymbolic:
		snap.ResolvedTo, err = i.symbolic(desc)
	case types.LinkHard:
		snap.ResolvedTo, err = i.hard(desc)
	default:
		return snap, errors.Newf(errors.ErrInvalidInput, "unknown link type %q", desc.LinkType)
	}
	if err != nil {
		logger.Debug().Err(err).Msg("Inspection failed")
		return types.LinkSnapshot{TargetFile: desc.TargetFile, LinkType: desc.LinkType}, err
	}

	logger.Debug().Str("resolved_to", snap.ResolvedTo).Msg("Inspected link")
	return snap, nil
}

// symbolic requires the target to exist (following the link) and to be a
// symlink itself. A dangling link reads as absent.
func (i *Inspector) symbolic(desc types.LinkDescriptor) (string, error) {
	if !i.fs.Exists(desc.TargetFile) || !i.fs.IsSymlink(desc.TargetFile) {
		return "", nil
	}
	dest, err := i.fs.ReadLink(desc.TargetFile)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInspectionFailed,
			"cannot read symbolic link %s", desc.TargetFile).
			WithDetail("path", desc.TargetFile)
	}
	return types.ExpandRelativeTo(dest, desc.TargetFile), nil
}

// hard echoes desc.To when both paths exist and share an inode.
func (i *Inspector) hard(desc types.LinkDescriptor) (string, error) {
	if !i.fs.Exists(desc.TargetFile) || !i.fs.Exists(desc.To) {
		return "", nil
	}
	same, err := SameInode(i.fs, desc.TargetFile, desc.To)
	if err != nil {
		return "", err
	}
	if !same {
		return "", nil
	}
	return desc.To, nil
}

// SameInode reports whether a and b refer to the same physical file.
// Failures are InspectionFailed errors.
func SameInode(fs types.LinkFS, a, b string) (bool, error) {
	ia, err := fs.InodeOf(a)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrInspectionFailed, "cannot stat %s", a).
			WithDetail("path", a)
	}
	ib, err := fs.InodeOf(b)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrInspectionFailed, "cannot stat %s", b).
			WithDetail("path", b)
	}
	return ia == ib, nil
}

// InSync reports whether snap already shows the link desc declares.
// Symbolic links compare against the expanded destination, hard links
// against To as written.
func InSync(desc types.LinkDescriptor, snap types.LinkSnapshot) bool {
	if !snap.Present() {
		return false
	}
	if desc.LinkType == types.LinkSymbolic {
		return snap.ResolvedTo == desc.ExpandedTo()
	}
	return snap.ResolvedTo == desc.To
}
