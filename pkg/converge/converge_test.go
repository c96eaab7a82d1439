package converge_test

import (
	"os"
	"testing"

	"github.com/arthur-debert/dolink/pkg/converge"
	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/filesystem"
	"github.com/arthur-debert/dolink/pkg/inspect"
	"github.com/arthur-debert/dolink/pkg/plan"
	"github.com/arthur-debert/dolink/pkg/testutil"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptions(actions []plan.Action) []string {
	var out []string
	for _, a := range actions {
		out = append(out, a.Description)
	}
	return out
}

func TestCreate_SymbolicScenario(t *testing.T) {
	tree := testutil.NewTempTree(t)
	to := tree.File("b", "content")
	target := tree.Path("a")
	desc := types.LinkDescriptor{TargetFile: target, LinkType: types.LinkSymbolic, To: to}

	engine := converge.New(filesystem.NewOS(), false)
	result, err := engine.Create(desc)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, plan.CreateSymlink, result.Actions[0].Kind)
	assert.Equal(t, to, result.Actions[0].To)
	assert.Equal(t, target, result.Actions[0].Target)

	snap, err := inspect.New(filesystem.NewOS()).Inspect(desc)
	require.NoError(t, err)
	assert.Equal(t, to, snap.ResolvedTo)
}

func TestCreate_Idempotent(t *testing.T) {
	tree := testutil.NewTempTree(t)
	engine := converge.New(filesystem.NewOS(), false)

	descs := []types.LinkDescriptor{
		{TargetFile: tree.Path("sym"), LinkType: types.LinkSymbolic, To: tree.File("sym-to", "x")},
		{TargetFile: tree.Path("hard"), LinkType: types.LinkHard, To: tree.File("hard-to", "x")},
	}

	for _, desc := range descs {
		t.Run(string(desc.LinkType), func(t *testing.T) {
			first, err := engine.Create(desc)
			require.NoError(t, err)
			assert.True(t, first.Changed)
			assert.NotEmpty(t, first.Actions)

			second, err := engine.Create(desc)
			require.NoError(t, err)
			assert.False(t, second.Changed)
			assert.Empty(t, second.Actions)
		})
	}
}

func TestCreate_ReplacesWrongLinkAndFile(t *testing.T) {
	tree := testutil.NewTempTree(t)
	to := tree.File("right", "x")
	tree.File("wrong", "x")
	wrongLink := tree.Symlink(tree.Path("wrong"), "link")
	regular := tree.File("occupied", "x")

	engine := converge.New(filesystem.NewOS(), false)

	for _, target := range []string{wrongLink, regular} {
		result, err := engine.Create(types.LinkDescriptor{TargetFile: target, LinkType: types.LinkSymbolic, To: to})
		require.NoError(t, err)
		require.Len(t, result.Actions, 2)
		assert.Equal(t, plan.Unlink, result.Actions[0].Kind)
		assert.Equal(t, plan.CreateSymlink, result.Actions[1].Kind)
		assert.Equal(t, to, tree.Readlink(target))
	}
}

func TestCreate_HardLinkOverExistingFileFails(t *testing.T) {
	tree := testutil.NewTempTree(t)
	to := tree.File("d", "x")
	target := tree.File("c", "other")

	result, err := converge.New(filesystem.NewOS(), false).Create(types.LinkDescriptor{
		TargetFile: target, LinkType: types.LinkHard, To: to,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecutionFailed))
	assert.Empty(t, result.Actions)
	assert.Equal(t, err.Error(), result.Error)

	content, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "other", string(content))
}

func TestCreate_DryRun(t *testing.T) {
	tree := testutil.NewTempTree(t)
	to := tree.File("b", "content")
	target := tree.Path("a")
	desc := types.LinkDescriptor{TargetFile: target, LinkType: types.LinkSymbolic, To: to}

	applied, err := converge.New(testutil.NewMemoryFS().AddFile(to), false).Create(desc)
	require.NoError(t, err)

	dry, err := converge.New(filesystem.NewOS(), true).Create(desc)
	require.NoError(t, err)

	assert.True(t, dry.Changed)
	assert.True(t, dry.DryRun)
	assert.Equal(t, descriptions(applied.Actions), descriptions(dry.Actions))
	assert.False(t, tree.Exists(target), "dry run must not create the link")
}

func TestDelete_HardNoOp(t *testing.T) {
	m := testutil.NewMemoryFS()
	desc := types.LinkDescriptor{TargetFile: "/tmp/c", LinkType: types.LinkHard, To: "/tmp/d"}

	result, err := converge.New(m, false).Delete(desc)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Empty(t, result.Actions)
	assert.Empty(t, m.Mutations())
}

func TestDelete_Symbolic(t *testing.T) {
	tree := testutil.NewTempTree(t)
	to := tree.File("b", "x")
	target := tree.Symlink(to, "a")

	result, err := converge.New(filesystem.NewOS(), false).Delete(types.LinkDescriptor{
		TargetFile: target, LinkType: types.LinkSymbolic, To: to,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, tree.Exists(target))
	assert.True(t, tree.Exists(to))
}

func TestDelete_GuardOnRegularFile(t *testing.T) {
	tree := testutil.NewTempTree(t)
	target := tree.File("a", "precious")
	desc := types.LinkDescriptor{TargetFile: target, LinkType: types.LinkSymbolic, To: tree.Path("b")}

	t.Run("real run fails loudly", func(t *testing.T) {
		result, err := converge.New(filesystem.NewOS(), false).Delete(desc)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidLinkState))
		assert.Equal(t, err.Error(), result.Error)
		assert.Contains(t, err.Error(), target)
		assert.Contains(t, err.Error(), "not a symbolic link")
		assert.True(t, tree.Exists(target))
	})

	t.Run("dry run reports", func(t *testing.T) {
		result, err := converge.New(filesystem.NewOS(), true).Delete(desc)
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.Empty(t, result.Actions)
		assert.Equal(t, []string{"would assume the file " + target + " was created"}, result.Assumptions)
		assert.Empty(t, result.Error)
		assert.True(t, tree.Exists(target))
	})
}

func TestDelete_HardGuard(t *testing.T) {
	tree := testutil.NewTempTree(t)
	target := tree.File("c", "x")
	to := tree.File("d", "x")

	_, err := converge.New(filesystem.NewOS(), false).Delete(types.LinkDescriptor{
		TargetFile: target, LinkType: types.LinkHard, To: to,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidLinkState))
	assert.Contains(t, err.Error(), "not a hard link")
}

func TestRun(t *testing.T) {
	m := testutil.NewMemoryFS().AddFile("/tmp/b")
	engine := converge.New(m, false)
	desc := types.LinkDescriptor{TargetFile: "/tmp/a", LinkType: types.LinkSymbolic, To: "/tmp/b"}

	created, err := engine.Run(desc, converge.OpCreate)
	require.NoError(t, err)
	assert.Equal(t, converge.OpCreate, created.Operation)
	assert.True(t, m.IsSymlink("/tmp/a"))

	deleted, err := engine.Run(desc, converge.OpDelete)
	require.NoError(t, err)
	assert.Equal(t, converge.OpDelete, deleted.Operation)
	assert.False(t, m.IsSymlink("/tmp/a"))

	_, err = engine.Run(desc, converge.Operation("rename"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCreate_InvalidDescriptor(t *testing.T) {
	_, err := converge.New(testutil.NewMemoryFS(), false).Create(types.LinkDescriptor{
		TargetFile: "/tmp/a", LinkType: types.LinkSymbolic,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestParseOperation(t *testing.T) {
	op, err := converge.ParseOperation("")
	require.NoError(t, err)
	assert.Equal(t, converge.OpCreate, op)

	op, err = converge.ParseOperation("delete")
	require.NoError(t, err)
	assert.Equal(t, converge.OpDelete, op)

	_, err = converge.ParseOperation("nope")
	assert.Error(t, err)
}
