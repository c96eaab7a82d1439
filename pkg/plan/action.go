package plan

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/dolink/pkg/types"
)

// ActionKind tags the variant of a planned action.
type ActionKind int

const (
	// Unlink removes whatever occupies the target before a symlink replaces it.
	Unlink ActionKind = iota

	// CreateSymlink creates a symbolic link at Target pointing to To.
	CreateSymlink

	// CreateHardLink creates Target as a hard link to To.
	CreateHardLink

	// Delete removes the link when the resource is deleted.
	Delete

	// SyncAccessControl reconciles ownership of Target.
	SyncAccessControl
)

var kindNames = map[ActionKind]string{
	Unlink:            "unlink",
	CreateSymlink:     "create_symlink",
	CreateHardLink:    "create_hard_link",
	Delete:            "delete",
	SyncAccessControl: "sync_access_control",
}

func (k ActionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// MarshalJSON renders the kind by name.
func (k ActionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Action is a single planned filesystem operation.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Target string     `json:"target"`
	To     string     `json:"to,omitempty"`

	// Description is the one-line converge message, also used in dry-run.
	Description string `json:"description"`

	// Detail is an optional debug line logged after the action runs.
	Detail string `json:"detail,omitempty"`
}

func (a Action) String() string { return a.Description }

// NewUnlink plans removal of whatever occupies target.
func NewUnlink(target string) Action {
	return Action{
		Kind:        Unlink,
		Target:      target,
		Description: fmt.Sprintf("unlink %s", target),
	}
}

// NewCreateSymlink plans a symbolic link from to at target.
func NewCreateSymlink(desc types.LinkDescriptor) Action {
	return Action{
		Kind:        CreateSymlink,
		Target:      desc.TargetFile,
		To:          desc.To,
		Description: fmt.Sprintf("create symbolic link from %s -> %s", desc.To, desc.TargetFile),
		Detail:      fmt.Sprintf("%s created %s link from %s -> %s", desc, desc.LinkType, desc.To, desc.TargetFile),
	}
}

// NewCreateHardLink plans a hard link from to at target.
func NewCreateHardLink(desc types.LinkDescriptor) Action {
	return Action{
		Kind:        CreateHardLink,
		Target:      desc.TargetFile,
		To:          desc.To,
		Description: fmt.Sprintf("create %s link from %s -> %s", desc.LinkType, desc.To, desc.TargetFile),
		Detail:      fmt.Sprintf("%s created %s link from %s -> %s", desc, desc.LinkType, desc.To, desc.TargetFile),
	}
}

// NewDelete plans removal of the link.
func NewDelete(desc types.LinkDescriptor) Action {
	return Action{
		Kind:        Delete,
		Target:      desc.TargetFile,
		Description: fmt.Sprintf("delete %s for %s", desc, desc.LinkType),
	}
}

// NewSyncAccessControl records an access control change.
func NewSyncAccessControl(target, description string) Action {
	return Action{
		Kind:        SyncAccessControl,
		Target:      target,
		Description: description,
	}
}
