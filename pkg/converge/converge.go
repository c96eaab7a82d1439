// Package converge runs one full convergence cycle for a link resource:
// inspect the current state, plan the minimal actions, check the
// preconditions, then execute.
//
// A cycle is synchronous and shares no state with other cycles. Dry-run is
// fixed when the Engine is built, so a cycle is either entirely real or
// entirely simulated.
package converge

import (
	"fmt"

	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/executor"
	"github.com/arthur-debert/dolink/pkg/guard"
	"github.com/arthur-debert/dolink/pkg/inspect"
	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/plan"
	"github.com/arthur-debert/dolink/pkg/types"
)

// Operation is the action requested for a resource.
type Operation string

const (
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
)

// ParseOperation converts user input to an Operation. Empty means create.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case "", OpCreate:
		return OpCreate, nil
	case OpDelete:
		return OpDelete, nil
	}
	return "", fmt.Errorf("unknown action %q (want create or delete)", s)
}

// Result is the outcome of one cycle.
type Result struct {
	Descriptor types.LinkDescriptor `json:"descriptor"`
	Operation  Operation            `json:"operation"`
	Snapshot   types.LinkSnapshot   `json:"snapshot"`
	// Error is set when the cycle stopped on a failure.
	Error string `json:"error,omitempty"`
	executor.ConvergenceResult
}

func (r *Result) fail(err error) (*Result, error) {
	r.Error = err.Error()
	return r, err
}

// Engine composes the inspector, planner, guard and executor.
type Engine struct {
	inspector *inspect.Inspector
	planner   *plan.Planner
	guard     *guard.Guard
	executor  *executor.Executor
	dryRun    bool
}

// New creates an Engine over fs.
func New(fs types.LinkFS, dryRun bool, opts ...executor.Option) *Engine {
	return &Engine{
		inspector: inspect.New(fs),
		planner:   plan.New(fs),
		guard:     guard.New(fs, dryRun),
		executor:  executor.New(fs, dryRun, opts...),
		dryRun:    dryRun,
	}
}

// DryRun reports whether the engine only simulates.
func (e *Engine) DryRun() bool { return e.dryRun }

// Run dispatches to Create or Delete.
func (e *Engine) Run(desc types.LinkDescriptor, op Operation) (*Result, error) {
	switch op {
	case OpCreate:
		return e.Create(desc)
	case OpDelete:
		return e.Delete(desc)
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown operation %q", op)
}

// Create brings the link at desc.TargetFile to the desired state.
func (e *Engine) Create(desc types.LinkDescriptor) (*Result, error) {
	logger := logging.GetLogger("converge").With().Str("resource", desc.String()).Logger()
	defer logging.LogOperationStart(logger, "create")()

	if err := desc.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid link")
	}

	result := &Result{Descriptor: desc, Operation: OpCreate}
	result.DryRun = e.dryRun

	snap, err := e.inspector.Inspect(desc)
	if err != nil {
		return result.fail(err)
	}
	result.Snapshot = snap

	actions, err := e.planner.Plan(desc, snap)
	if err != nil {
		return result.fail(err)
	}

	executed, err := e.executor.ExecuteCreate(desc, actions)
	if executed != nil {
		result.ConvergenceResult = *executed
	}
	if err != nil {
		return result.fail(err)
	}
	return result, nil
}

// Delete removes the link at desc.TargetFile if it is the expected kind.
func (e *Engine) Delete(desc types.LinkDescriptor) (*Result, error) {
	logger := logging.GetLogger("converge").With().Str("resource", desc.String()).Logger()
	defer logging.LogOperationStart(logger, "delete")()

	if err := desc.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid link")
	}

	result := &Result{Descriptor: desc, Operation: OpDelete}
	result.DryRun = e.dryRun

	snap, err := e.inspector.Inspect(desc)
	if err != nil {
		return result.fail(err)
	}
	result.Snapshot = snap

	outcome, err := e.guard.CheckDelete(desc)
	if err != nil {
		logger.Error().Err(err).Msg("Delete precondition failed")
		return result.fail(err)
	}
	if outcome.Verdict == guard.Assumed {
		result.Assumptions = append(result.Assumptions, outcome.Message)
		return result, nil
	}

	executed, err := e.executor.ExecuteDelete(desc, e.planner.PlanDelete(desc))
	if executed != nil {
		result.ConvergenceResult = *executed
	}
	if err != nil {
		return result.fail(err)
	}
	return result, nil
}
