package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Manifest declares a set of link resources.
type Manifest struct {
	Links []LinkEntry `koanf:"links"`
}

// LinkEntry is one declared link as written in a manifest.
type LinkEntry struct {
	Name       string `koanf:"name"`
	TargetFile string `koanf:"target_file"`
	To         string `koanf:"to"`
	LinkType   string `koanf:"link_type"`
	Action     string `koanf:"action"`
	Owner      string `koanf:"owner"`
	Group      string `koanf:"group"`
}

// Resource is a validated manifest entry.
type Resource struct {
	Descriptor types.LinkDescriptor
	Action     string
}

// LoadManifest parses a TOML or YAML manifest, chosen by file extension.
func LoadManifest(path string) (*Manifest, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported manifest format %q", filepath.Ext(path)).
			WithDetail("path", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load manifest %s", path).
			WithDetail("path", path)
	}

	var m Manifest
	if err := k.UnmarshalWithConf("", &m, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode manifest %s", path).
			WithDetail("path", path)
	}
	return &m, nil
}

// Resources validates every entry, filling unset link types from defaults.
// Relative target files are resolved against baseDir.
func (m *Manifest) Resources(defaults Defaults, baseDir string) ([]Resource, error) {
	resources := make([]Resource, 0, len(m.Links))
	for i, entry := range m.Links {
		res, err := entry.resource(defaults, baseDir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid link #%d", i+1).
				WithDetail("index", i)
		}
		resources = append(resources, res)
	}
	return resources, nil
}

func (e LinkEntry) resource(defaults Defaults, baseDir string) (Resource, error) {
	raw := e.LinkType
	if raw == "" {
		raw = defaults.LinkType
	}
	linkType, err := types.ParseLinkType(raw)
	if err != nil {
		return Resource{}, err
	}

	switch e.Action {
	case "", "create", "delete":
	default:
		return Resource{}, fmt.Errorf("unknown action %q", e.Action)
	}

	target := types.ExpandHome(e.TargetFile)
	if target != "" && !filepath.IsAbs(target) {
		target = filepath.Join(baseDir, target)
	}

	// A relative symbolic target is stored as written and resolved by the
	// OS from the link's directory. A hard link needs a real path now.
	to := types.ExpandHome(e.To)
	if linkType == types.LinkHard && to != "" && !filepath.IsAbs(to) {
		to = filepath.Join(baseDir, to)
	}

	desc := types.LinkDescriptor{
		Name:       e.Name,
		TargetFile: target,
		LinkType:   linkType,
		To:         to,
		Access:     types.AccessSpec{Owner: e.Owner, Group: e.Group},
	}
	if err := desc.Validate(); err != nil {
		return Resource{}, err
	}
	return Resource{Descriptor: desc, Action: e.Action}, nil
}
