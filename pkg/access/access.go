// Package access reconciles the ownership of a link after it is created.
package access

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/types"
)

// For returns the access control collaborator for desc. Descriptors that
// declare no ownership get a no-op.
func For(desc types.LinkDescriptor) types.AccessControl {
	if desc.Access.IsZero() {
		return Noop{}
	}
	return NewSynchronizer(desc.Access)
}

// Noop never requires changes.
type Noop struct{}

func (Noop) RequiresChanges(string) (bool, error) { return false, nil }
func (Noop) DescribeChanges() string              { return "" }
func (Noop) ApplyChanges(string) error            { return nil }

// Synchronizer changes a link's owner and group with lchown, so the link
// itself is modified and never the file it points to.
type Synchronizer struct {
	spec types.AccessSpec

	// filled by RequiresChanges
	uid, gid int
	changes  []string
}

// NewSynchronizer creates a Synchronizer for spec.
func NewSynchronizer(spec types.AccessSpec) *Synchronizer {
	return &Synchronizer{spec: spec, uid: -1, gid: -1}
}

// RequiresChanges compares the declared ownership with targetFile. A
// missing target requires every declared change.
func (s *Synchronizer) RequiresChanges(targetFile string) (bool, error) {
	s.uid, s.gid, s.changes = -1, -1, nil

	if !ownershipSupported {
		logUnsupported(targetFile)
		return false, nil
	}

	wantUID, err := lookupUID(s.spec.Owner)
	if err != nil {
		return false, err
	}
	wantGID, err := lookupGID(s.spec.Group)
	if err != nil {
		return false, err
	}

	haveUID, haveGID, err := currentOwner(targetFile)
	switch {
	case os.IsNotExist(err):
		haveUID, haveGID = -1, -1
	case errors.Is(err, errUnsupported):
		logUnsupported(targetFile)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to read ownership of %s: %w", targetFile, err)
	}

	if wantUID >= 0 && wantUID != haveUID {
		s.uid = wantUID
		s.changes = append(s.changes, fmt.Sprintf("change owner from '%s' to '%s'", idString(haveUID), s.spec.Owner))
	}
	if wantGID >= 0 && wantGID != haveGID {
		s.gid = wantGID
		s.changes = append(s.changes, fmt.Sprintf("change group from '%s' to '%s'", idString(haveGID), s.spec.Group))
	}
	return len(s.changes) > 0, nil
}

// DescribeChanges summarises what ApplyChanges will do.
func (s *Synchronizer) DescribeChanges() string {
	return strings.Join(s.changes, ", ")
}

// ApplyChanges performs the changes found by RequiresChanges.
func (s *Synchronizer) ApplyChanges(targetFile string) error {
	if s.uid < 0 && s.gid < 0 {
		return nil
	}
	if err := os.Lchown(targetFile, s.uid, s.gid); err != nil {
		return fmt.Errorf("failed to change ownership of %s: %w", targetFile, err)
	}
	logger := logging.GetLogger("access")
	logger.Info().
		Str("target", targetFile).
		Str("changes", s.DescribeChanges()).
		Msg("Ownership updated")
	return nil
}

func logUnsupported(targetFile string) {
	logger := logging.GetLogger("access")
	logger.Warn().
		Str("target", targetFile).
		Msg("Ownership is not managed on this platform")
}

func idString(id int) string {
	if id < 0 {
		return "unknown"
	}
	return strconv.Itoa(id)
}

func lookupUID(owner string) (int, error) {
	if owner == "" {
		return -1, nil
	}
	if id, err := strconv.Atoi(owner); err == nil {
		return id, nil
	}
	u, err := user.Lookup(owner)
	if err != nil {
		return -1, fmt.Errorf("unknown owner %q: %w", owner, err)
	}
	return strconv.Atoi(u.Uid)
}

func lookupGID(group string) (int, error) {
	if group == "" {
		return -1, nil
	}
	if id, err := strconv.Atoi(group); err == nil {
		return id, nil
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return -1, fmt.Errorf("unknown group %q: %w", group, err)
	}
	return strconv.Atoi(g.Gid)
}
