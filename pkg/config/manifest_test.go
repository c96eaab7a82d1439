package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadManifest_TOML(t *testing.T) {
	path := writeManifest(t, "links.toml", `
[[links]]
target_file = "/etc/app/current"
to = "/opt/app/v2"

[[links]]
name = "shared data"
target_file = "data.db"
to = "/srv/data.db"
link_type = "hard"
action = "delete"
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Links, 2)

	resources, err := m.Resources(Defaults{LinkType: "symbolic"}, "/base")
	require.NoError(t, err)
	require.Len(t, resources, 2)

	assert.Equal(t, types.LinkDescriptor{
		TargetFile: "/etc/app/current",
		LinkType:   types.LinkSymbolic,
		To:         "/opt/app/v2",
	}, resources[0].Descriptor)
	assert.Equal(t, "", resources[0].Action)

	assert.Equal(t, "shared data", resources[1].Descriptor.Name)
	assert.Equal(t, filepath.Join("/base", "data.db"), resources[1].Descriptor.TargetFile)
	assert.Equal(t, types.LinkHard, resources[1].Descriptor.LinkType)
	assert.Equal(t, "delete", resources[1].Action)
}

func TestLoadManifest_YAML(t *testing.T) {
	path := writeManifest(t, "links.yaml", `
links:
  - target_file: /home/me/.vimrc
    to: /dotfiles/vimrc
    owner: "1000"
    group: "1000"
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	resources, err := m.Resources(Defaults{LinkType: "hard"}, "/")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, types.LinkHard, resources[0].Descriptor.LinkType)
	assert.Equal(t, types.AccessSpec{Owner: "1000", Group: "1000"}, resources[0].Descriptor.Access)
}

func TestLoadManifest_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadManifest(writeManifest(t, "links.ini", ""))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.toml"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	tests := []struct {
		name    string
		content string
	}{
		{"missing to", "[[links]]\ntarget_file = \"/a\"\n"},
		{"missing target", "[[links]]\nto = \"/a\"\n"},
		{"bad link type", "[[links]]\ntarget_file = \"/a\"\nto = \"/b\"\nlink_type = \"junction\"\n"},
		{"bad action", "[[links]]\ntarget_file = \"/a\"\nto = \"/b\"\naction = \"move\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LoadManifest(writeManifest(t, "links.toml", tt.content))
			require.NoError(t, err)

			_, err = m.Resources(Defaults{LinkType: "symbolic"}, "/")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			assert.Equal(t, 0, errors.GetErrorDetails(err)["index"])
		})
	}
}

func TestLoadManifest_RelativeTo(t *testing.T) {
	path := writeManifest(t, "links.toml", `
[[links]]
target_file = "soft"
to = "src"

[[links]]
target_file = "hard"
to = "src"
link_type = "hard"

[[links]]
target_file = "other"
to = "/abs/src"
link_type = "hard"
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	resources, err := m.Resources(Defaults{LinkType: "symbolic"}, "/base")
	require.NoError(t, err)
	require.Len(t, resources, 3)

	assert.Equal(t, "src", resources[0].Descriptor.To, "symbolic targets stay relative to the link")
	assert.Equal(t, filepath.Join("/base", "src"), resources[1].Descriptor.To)
	assert.Equal(t, "/abs/src", resources[2].Descriptor.To)
}
