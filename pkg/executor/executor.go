package executor

import (
	"fmt"

	"github.com/arthur-debert/dolink/pkg/access"
	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/guard"
	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/plan"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/rs/zerolog"
)

// ConvergenceResult lists the actions executed, or in a dry run the
// actions that would have been executed.
type ConvergenceResult struct {
	Actions []plan.Action `json:"actions"`
	Changed bool          `json:"changed"`
	DryRun  bool          `json:"dryRun"`

	// Assumptions holds guard messages from a dry run whose preconditions
	// did not hold.
	Assumptions []string `json:"assumptions,omitempty"`
}

// AccessFactory builds the access control collaborator for a descriptor.
type AccessFactory func(types.LinkDescriptor) types.AccessControl

// Executor runs planned actions.
type Executor struct {
	fs        types.LinkFS
	guard     *guard.Guard
	dryRun    bool
	accessFor AccessFactory
}

// Option configures an Executor.
type Option func(*Executor)

// WithAccessFactory replaces the default access control collaborator.
func WithAccessFactory(f AccessFactory) Option {
	return func(e *Executor) { e.accessFor = f }
}

// New creates a new Executor. dryRun is fixed for the executor's lifetime.
func New(fs types.LinkFS, dryRun bool, opts ...Option) *Executor {
	e := &Executor{
		fs:        fs,
		guard:     guard.New(fs, dryRun),
		dryRun:    dryRun,
		accessFor: access.For,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DryRun reports whether the executor only simulates.
func (e *Executor) DryRun() bool { return e.dryRun }

// ExecuteCreate runs the create-path plan for desc. For symbolic links the
// access control collaborator is consulted afterwards, whether or not the
// link itself had to change.
func (e *Executor) ExecuteCreate(desc types.LinkDescriptor, actions []plan.Action) (*ConvergenceResult, error) {
	result, err := e.run(desc, actions)
	if err != nil {
		return result, err
	}
	if desc.LinkType == types.LinkSymbolic {
		if err := e.syncAccess(desc, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ExecuteDelete runs the delete-path plan for desc.
func (e *Executor) ExecuteDelete(desc types.LinkDescriptor, actions []plan.Action) (*ConvergenceResult, error) {
	return e.run(desc, actions)
}

// run stops at the first failure; Actions then holds what was applied.
func (e *Executor) run(desc types.LinkDescriptor, actions []plan.Action) (*ConvergenceResult, error) {
	logger := logging.GetLogger("executor").With().
		Str("resource", desc.String()).
		Int("action_count", len(actions)).
		Bool("dry_run", e.dryRun).
		Logger()

	result := &ConvergenceResult{DryRun: e.dryRun}

	for _, action := range actions {
		if outcome := e.guard.CheckAction(action); outcome.Verdict == guard.Skip {
			logger.Debug().Str("action", action.Kind.String()).Msg(outcome.Message)
			continue
		}

		if e.dryRun {
			logger.Info().Msgf("Would %s", action.Description)
			result.record(action)
			continue
		}

		logger.Debug().Str("action", action.Kind.String()).Msg("Executing action")
		if err := e.apply(action); err != nil {
			logger.Error().Err(err).Str("action", action.Kind.String()).Msg("Action failed")
			return result, executionFailed(action, err)
		}
		result.record(action)
		e.logApplied(logger, desc, action)
	}

	return result, nil
}

func (e *Executor) apply(action plan.Action) error {
	switch action.Kind {
	case plan.Unlink:
		return e.fs.Unlink(action.Target)
	case plan.CreateSymlink:
		return e.fs.CreateSymlink(action.To, action.Target)
	case plan.CreateHardLink:
		return e.fs.CreateHardLink(action.To, action.Target)
	case plan.Delete:
		return e.fs.Delete(action.Target)
	default:
		return fmt.Errorf("unknown action type: %s", action.Kind)
	}
}

func (e *Executor) logApplied(logger zerolog.Logger, desc types.LinkDescriptor, action plan.Action) {
	if action.Detail != "" {
		logger.Debug().Msg(action.Detail)
	}
	switch action.Kind {
	case plan.CreateSymlink, plan.CreateHardLink:
		logger.Info().Msgf("%s created", desc)
	case plan.Delete:
		logger.Info().Msgf("%s deleted", desc)
	}
}

func (e *Executor) syncAccess(desc types.LinkDescriptor, result *ConvergenceResult) error {
	ac := e.accessFor(desc)
	needed, err := ac.RequiresChanges(desc.TargetFile)
	if err != nil {
		return executionFailed(plan.NewSyncAccessControl(desc.TargetFile, "check access control"), err)
	}
	if !needed {
		return nil
	}

	action := plan.NewSyncAccessControl(desc.TargetFile, ac.DescribeChanges())
	if !e.dryRun {
		if err := ac.ApplyChanges(desc.TargetFile); err != nil {
			return executionFailed(action, err)
		}
	}
	result.record(action)
	return nil
}

func (r *ConvergenceResult) record(action plan.Action) {
	r.Actions = append(r.Actions, action)
	r.Changed = true
}

func executionFailed(action plan.Action, err error) error {
	return errors.Wrapf(err, errors.ErrExecutionFailed, "failed to %s", action.Description).
		WithDetail("action", action.Kind.String()).
		WithDetail("target", action.Target)
}
