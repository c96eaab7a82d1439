package plan_test

import (
	"testing"

	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/inspect"
	"github.com/arthur-debert/dolink/pkg/plan"
	"github.com/arthur-debert/dolink/pkg/testutil"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(actions []plan.Action) []plan.ActionKind {
	var out []plan.ActionKind
	for _, a := range actions {
		out = append(out, a.Kind)
	}
	return out
}

func planFor(t *testing.T, m *testutil.MemoryFS, desc types.LinkDescriptor) []plan.Action {
	t.Helper()
	snap, err := inspect.New(m).Inspect(desc)
	require.NoError(t, err)
	actions, err := plan.New(m).Plan(desc, snap)
	require.NoError(t, err)
	return actions
}

func TestPlan_Symbolic(t *testing.T) {
	desc := types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic, To: "/tmp/b"}

	tests := []struct {
		name     string
		setup    func(*testutil.MemoryFS)
		expected []plan.ActionKind
	}{
		{
			name:     "target absent creates only",
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/b") },
			expected: []plan.ActionKind{plan.CreateSymlink},
		},
		{
			name:     "already correct is empty",
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/b").AddSymlink("/tmp/a", "/tmp/b") },
			expected: nil,
		},
		{
			name:     "wrong link is replaced",
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/x").AddSymlink("/tmp/a", "/tmp/x") },
			expected: []plan.ActionKind{plan.Unlink, plan.CreateSymlink},
		},
		{
			name:     "regular file is replaced",
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/a") },
			expected: []plan.ActionKind{plan.Unlink, plan.CreateSymlink},
		},
		{
			name:     "dangling link to the right place is kept",
			setup:    func(m *testutil.MemoryFS) { m.AddSymlink("/tmp/a", "/tmp/b") },
			expected: nil,
		},
		{
			name:     "dangling link elsewhere is replaced",
			setup:    func(m *testutil.MemoryFS) { m.AddSymlink("/tmp/a", "/tmp/gone") },
			expected: []plan.ActionKind{plan.Unlink, plan.CreateSymlink},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testutil.NewMemoryFS()
			tt.setup(m)
			assert.Equal(t, tt.expected, kinds(planFor(t, m, desc)))
			assert.Empty(t, m.Mutations())
		})
	}
}

func TestPlan_SymbolicDescriptions(t *testing.T) {
	m := testutil.NewMemoryFS().AddFile("/tmp/b")
	desc := types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic, To: "/tmp/b"}

	actions := planFor(t, m, desc)
	require.Len(t, actions, 1)
	assert.Equal(t, plan.CreateSymlink, actions[0].Kind)
	assert.Equal(t, "/tmp/b", actions[0].To)
	assert.Equal(t, "/tmp/a", actions[0].Target)
	assert.Equal(t, "create symbolic link from /tmp/b -> /tmp/a", actions[0].Description)
}

func TestPlan_LiveCheckOverridesStaleSnapshot(t *testing.T) {
	m := testutil.NewMemoryFS().AddFile("/tmp/b").AddSymlink("/tmp/a", "/tmp/b")
	desc := types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic, To: "/tmp/b"}

	stale := types.LinkSnapshot{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic}
	actions, err := plan.New(m).Plan(desc, stale)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestPlan_RelativeTo(t *testing.T) {
	m := testutil.NewMemoryFS().AddFile("/etc/app/real.conf").AddSymlink("/etc/app/current.conf", "real.conf")
	desc := types.LinkDescriptor{TargetFile: "/etc/app/current.conf", LinkType: types.LinkSymbolic, To: "real.conf"}

	assert.Empty(t, planFor(t, m, desc))
}

func TestPlan_Hard(t *testing.T) {
	desc := types.LinkDescriptor{TargetFile: "/tmp/c", LinkType: types.LinkHard, To: "/tmp/d"}

	tests := []struct {
		name     string
		setup    func(*testutil.MemoryFS)
		expected []plan.ActionKind
	}{
		{
			name:     "shared inode is empty",
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/d").AddHardLink("/tmp/c", "/tmp/d") },
			expected: nil,
		},
		{
			name:     "target absent",
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/d") },
			expected: []plan.ActionKind{plan.CreateHardLink},
		},
		{
			name:     "different file is never unlinked first",
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/d").AddFile("/tmp/c") },
			expected: []plan.ActionKind{plan.CreateHardLink},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testutil.NewMemoryFS()
			tt.setup(m)
			assert.Equal(t, tt.expected, kinds(planFor(t, m, desc)))
		})
	}
}

func TestPlan_InvalidDescriptor(t *testing.T) {
	_, err := plan.New(testutil.NewMemoryFS()).Plan(
		types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic},
		types.LinkSnapshot{},
	)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestPlanDelete(t *testing.T) {
	tests := []struct {
		name     string
		desc     types.LinkDescriptor
		setup    func(*testutil.MemoryFS)
		expected []plan.ActionKind
	}{
		{
			name:     "symbolic present",
			desc:     types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic, To: "/tmp/b"},
			setup:    func(m *testutil.MemoryFS) { m.AddSymlink("/tmp/a", "/tmp/b") },
			expected: []plan.ActionKind{plan.Delete},
		},
		{
			name:     "symbolic absent",
			desc:     types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic, To: "/tmp/b"},
			setup:    func(m *testutil.MemoryFS) {},
			expected: nil,
		},
		{
			name:     "symbolic target is a regular file",
			desc:     types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic, To: "/tmp/b"},
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/a") },
			expected: nil,
		},
		{
			name:     "hard present",
			desc:     types.LinkDescriptor{TargetFile: "/tmp/c", LinkType: types.LinkHard, To: "/tmp/d"},
			setup:    func(m *testutil.MemoryFS) { m.AddFile("/tmp/d").AddHardLink("/tmp/c", "/tmp/d") },
			expected: []plan.ActionKind{plan.Delete},
		},
		{
			name:     "hard absent",
			desc:     types.LinkDescriptor{TargetFile: "/tmp/c", LinkType: types.LinkHard, To: "/tmp/d"},
			setup:    func(m *testutil.MemoryFS) {},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testutil.NewMemoryFS()
			tt.setup(m)
			assert.Equal(t, tt.expected, kinds(plan.New(m).PlanDelete(tt.desc)))
		})
	}
}

func TestActionKind_String(t *testing.T) {
	assert.Equal(t, "unlink", plan.Unlink.String())
	assert.Equal(t, "sync_access_control", plan.SyncAccessControl.String())
	assert.Equal(t, "unknown(42)", plan.ActionKind(42).String())
}
