package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS_Symlinks(t *testing.T) {
	fs := NewOS()
	tmpDir := t.TempDir()

	target := filepath.Join(tmpDir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0644))

	link := filepath.Join(tmpDir, "link")
	require.NoError(t, fs.CreateSymlink(target, link))

	assert.True(t, fs.Exists(link))
	assert.True(t, fs.IsSymlink(link))
	assert.False(t, fs.IsSymlink(target))

	got, err := fs.ReadLink(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	require.NoError(t, fs.Delete(link))
	assert.False(t, fs.IsSymlink(link))
	assert.True(t, fs.Exists(target))
}

func TestNewOS_DanglingSymlink(t *testing.T) {
	fs := NewOS()
	tmpDir := t.TempDir()

	link := filepath.Join(tmpDir, "dangling")
	require.NoError(t, fs.CreateSymlink(filepath.Join(tmpDir, "missing"), link))

	assert.False(t, fs.Exists(link), "exists follows the link")
	assert.True(t, fs.IsSymlink(link), "a dangling link is still a symlink")

	require.NoError(t, fs.Unlink(link))
	assert.False(t, fs.IsSymlink(link))
}

func TestNewOS_HardLinks(t *testing.T) {
	fs := NewOS()
	tmpDir := t.TempDir()

	original := filepath.Join(tmpDir, "original")
	other := filepath.Join(tmpDir, "other")
	require.NoError(t, os.WriteFile(original, []byte("data"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("data"), 0644))

	link := filepath.Join(tmpDir, "hard")
	require.NoError(t, fs.CreateHardLink(original, link))

	a, err := fs.InodeOf(original)
	require.NoError(t, err)
	b, err := fs.InodeOf(link)
	require.NoError(t, err)
	c, err := fs.InodeOf(other)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	err = fs.CreateHardLink(original, link)
	assert.Error(t, err, "creating over an existing entry fails")
}

func TestNewOS_InodeOfMissing(t *testing.T) {
	_, err := NewOS().InodeOf(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestDefault_IsMemoized(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestWrapInode(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want int64
	}{
		{"zero", 0, 0},
		{"small", 4242, 4242},
		{"signed 32-bit max is kept", 2147483647, 2147483647},
		{"just above wraps negative", 2147483648, -2147483648},
		{"unsigned 32-bit max", 4294967295, -1},
		{"64-bit value stays outside 32 bits", 1 << 40, 1<<40 - 1<<32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapInode(tt.in))
		})
	}
}
