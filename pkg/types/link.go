package types

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LinkType identifies the kind of filesystem link a descriptor manages.
type LinkType string

const (
	// LinkSymbolic is a link storing a path string resolved by the OS on access.
	LinkSymbolic LinkType = "symbolic"

	// LinkHard is a directory entry sharing an inode with another entry.
	LinkHard LinkType = "hard"
)

// ParseLinkType converts user input into a LinkType. An empty value
// defaults to LinkSymbolic.
func ParseLinkType(s string) (LinkType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "symbolic", "symlink", "soft":
		return LinkSymbolic, nil
	case "hard", "hardlink":
		return LinkHard, nil
	}
	return "", fmt.Errorf("unknown link type %q", s)
}

func (t LinkType) String() string { return string(t) }

// AccessSpec declares the ownership a link should end up with.
// Empty fields are left untouched.
type AccessSpec struct {
	Owner string `json:"owner,omitempty"`
	Group string `json:"group,omitempty"`
}

// IsZero reports whether the spec declares nothing.
func (a AccessSpec) IsZero() bool {
	return a.Owner == "" && a.Group == ""
}

// LinkDescriptor is the desired state of a link. It is owned by the caller
// and never mutated by the engine.
type LinkDescriptor struct {
	// Name is a human label for messages; defaults to link[<TargetFile>].
	Name string `json:"name,omitempty"`

	// TargetFile is where the link object itself lives.
	TargetFile string `json:"targetFile"`

	// LinkType is fixed for the lifetime of the descriptor.
	LinkType LinkType `json:"linkType"`

	// To is the path the link points to (symbolic) or shares an inode with (hard).
	To string `json:"to"`

	// Access is reconciled after symbolic link creation.
	Access AccessSpec `json:"access,omitempty"`
}

// NewLinkDescriptor builds a descriptor and validates it.
func NewLinkDescriptor(targetFile string, linkType LinkType, to string) (LinkDescriptor, error) {
	d := LinkDescriptor{TargetFile: targetFile, LinkType: linkType, To: to}
	return d, d.Validate()
}

// Validate checks the descriptor invariants.
func (d LinkDescriptor) Validate() error {
	if d.TargetFile == "" {
		return fmt.Errorf("link descriptor has no target file")
	}
	if d.LinkType != LinkSymbolic && d.LinkType != LinkHard {
		return fmt.Errorf("link descriptor %s has invalid link type %q", d.TargetFile, d.LinkType)
	}
	if d.To == "" {
		return fmt.Errorf("link descriptor %s has no 'to' path", d.TargetFile)
	}
	return nil
}

// String returns the resource name used in messages.
func (d LinkDescriptor) String() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("link[%s]", d.TargetFile)
}

// ExpandedTo returns To as an absolute path, resolving a relative value
// against the directory holding TargetFile, the way the OS resolves a
// relative symlink.
func (d LinkDescriptor) ExpandedTo() string {
	return ExpandRelativeTo(d.To, d.TargetFile)
}

// ExpandRelativeTo makes p absolute relative to the directory of linkPath.
// A leading ~ is expanded to the home directory.
func ExpandRelativeTo(p, linkPath string) string {
	if p == "" {
		return ""
	}
	p = ExpandHome(p)
	if !filepath.IsAbs(p) {
		base := filepath.Dir(ExpandHome(linkPath))
		if !filepath.IsAbs(base) {
			if abs, err := filepath.Abs(base); err == nil {
				base = abs
			}
		}
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[1:])
	}
	return p
}

// LinkSnapshot is the observed state of a link, built fresh per cycle.
// ResolvedTo is empty when no matching link exists or it cannot be determined.
type LinkSnapshot struct {
	TargetFile string   `json:"targetFile"`
	LinkType   LinkType `json:"linkType"`
	ResolvedTo string   `json:"resolvedTo"`
}

// Present reports whether the snapshot found a link of the expected kind.
func (s LinkSnapshot) Present() bool {
	return s.ResolvedTo != ""
}
