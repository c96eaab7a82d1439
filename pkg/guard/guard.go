// Package guard asserts that the filesystem still looks the way the engine
// expects before anything destructive happens.
//
// A failed assertion is a hard InvalidLinkState error in a real run. In a
// dry run it becomes an Assumed outcome carrying a message describing what
// the run would have assumed; the caller goes no further for that action.
package guard

import (
	"fmt"

	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/inspect"
	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/plan"
	"github.com/arthur-debert/dolink/pkg/types"
)

// Verdict is the result kind of a guard check.
type Verdict int

const (
	// Satisfied means the assumptions hold and the action may proceed.
	Satisfied Verdict = iota

	// Assumed means an assertion failed during a dry run.
	Assumed

	// Skip means the action is no longer needed; the filesystem changed
	// under us in a way that already satisfies it.
	Skip
)

// Outcome is what a check concluded.
type Outcome struct {
	Verdict Verdict
	Message string
}

// Guard runs precondition checks.
type Guard struct {
	fs     types.LinkFS
	dryRun bool
}

// New creates a Guard. dryRun is fixed for the guard's lifetime.
func New(fs types.LinkFS, dryRun bool) *Guard {
	return &Guard{fs: fs, dryRun: dryRun}
}

// CheckDelete validates the delete path for desc.
func (g *Guard) CheckDelete(desc types.LinkDescriptor) (Outcome, error) {
	logger := logging.GetLogger("guard").With().
		Str("target", desc.TargetFile).
		Bool("dry_run", g.dryRun).
		Logger()

	switch desc.LinkType {
	case types.LinkSymbolic:
		// Something other than a symlink at the target is fatal; nothing at
		// all means the delete is already satisfied.
		if !g.fs.IsSymlink(desc.TargetFile) && g.fs.Exists(desc.TargetFile) {
			return g.fail(desc, "not a symbolic link",
				fmt.Sprintf("would assume the file %s was created", desc.TargetFile))
		}

	case types.LinkHard:
		if g.fs.Exists(desc.TargetFile) {
			ok := g.fs.Exists(desc.To)
			if ok {
				same, err := inspect.SameInode(g.fs, desc.TargetFile, desc.To)
				if err != nil {
					return Outcome{}, err
				}
				ok = same
			}
			if !ok {
				return g.fail(desc, "not a hard link",
					fmt.Sprintf("would assume the file %s was created", desc.To))
			}
		}
	}

	logger.Debug().Msg("Delete preconditions satisfied")
	return Outcome{Verdict: Satisfied}, nil
}

// CheckAction re-verifies a single create-path action immediately before
// it runs. An Unlink whose target has vanished is skipped rather than
// failing on a missing file.
func (g *Guard) CheckAction(action plan.Action) Outcome {
	if action.Kind == plan.Unlink && !g.fs.IsSymlink(action.Target) && !g.fs.Exists(action.Target) {
		logger := logging.GetLogger("guard")
		logger.Debug().
			Str("target", action.Target).
			Msg("Unlink target already gone")
		return Outcome{Verdict: Skip, Message: fmt.Sprintf("%s already removed", action.Target)}
	}
	return Outcome{Verdict: Satisfied}
}

func (g *Guard) fail(desc types.LinkDescriptor, reason, whyRun string) (Outcome, error) {
	logger := logging.GetLogger("guard")
	if g.dryRun {
		logger.Warn().Str("target", desc.TargetFile).Str("reason", reason).Msg(whyRun)
		return Outcome{Verdict: Assumed, Message: whyRun}, nil
	}
	return Outcome{}, errors.Newf(errors.ErrInvalidLinkState,
		"cannot delete %s at %s: %s", desc, desc.TargetFile, reason).
		WithDetail("path", desc.TargetFile).
		WithDetail("expected", desc.LinkType.String())
}
