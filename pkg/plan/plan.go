// Package plan decides which filesystem operations bring a link from its
// observed state to its desired state.
//
// Plan covers the create path and PlanDelete the delete path. Both return
// an empty plan when nothing needs to change.
package plan

import (
	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/inspect"
	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/types"
)

// Planner compares snapshots to descriptors. It reads the filesystem for
// the live checks the create and delete paths need but never mutates it.
type Planner struct {
	fs types.LinkFS
}

// New creates a Planner.
func New(fs types.LinkFS) *Planner {
	return &Planner{fs: fs}
}

// Plan returns the create-path actions for desc given the observed snap.
func (p *Planner) Plan(desc types.LinkDescriptor, snap types.LinkSnapshot) ([]Action, error) {
	if err := desc.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot plan link")
	}
	logger := logging.GetLogger("plan").With().
		Str("target", desc.TargetFile).
		Str("type", desc.LinkType.String()).
		Logger()

	var actions []Action
	switch desc.LinkType {
	case types.LinkSymbolic:
		if inspect.InSync(desc, snap) {
			break
		}
		// The snapshot may be stale; the live link wins.
		if p.fs.IsSymlink(desc.TargetFile) {
			if dest, err := p.fs.ReadLink(desc.TargetFile); err == nil && dest == desc.To {
				logger.Debug().Msg("Live link already correct, skipping")
				break
			}
		}
		if p.fs.IsSymlink(desc.TargetFile) || p.fs.Exists(desc.TargetFile) {
			actions = append(actions, NewUnlink(desc.TargetFile))
		}
		actions = append(actions, NewCreateSymlink(desc))

	case types.LinkHard:
		// Creation fails at execution time if the target is occupied.
		if !inspect.InSync(desc, snap) {
			actions = append(actions, NewCreateHardLink(desc))
		}
	}

	logger.Debug().Int("actions", len(actions)).Msg("Planned create")
	return actions, nil
}

// PlanDelete returns the delete-path actions for desc. Deleting a link that
// is already gone yields an empty plan.
func (p *Planner) PlanDelete(desc types.LinkDescriptor) []Action {
	var actions []Action
	switch desc.LinkType {
	case types.LinkSymbolic:
		if p.fs.IsSymlink(desc.TargetFile) {
			actions = append(actions, NewDelete(desc))
		}
	case types.LinkHard:
		if p.fs.Exists(desc.TargetFile) {
			actions = append(actions, NewDelete(desc))
		}
	}

	logger := logging.GetLogger("plan")
	logger.Debug().
		Str("target", desc.TargetFile).
		Int("actions", len(actions)).
		Msg("Planned delete")
	return actions
}
