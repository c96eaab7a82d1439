package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DOLINK_"

	// EnvConfigFile points at an alternative config file.
	EnvConfigFile = "DOLINK_CONFIG"

	appDir = "dolink"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the resolved runtime settings.
type Config struct {
	DryRun    bool     `koanf:"dry_run" toml:"dry_run"`
	Verbosity int      `koanf:"verbosity" toml:"verbosity"`
	Output    string   `koanf:"output" toml:"output"`
	Defaults  Defaults `koanf:"defaults" toml:"defaults"`
}

// Defaults holds values applied to manifest entries that leave them unset.
type Defaults struct {
	LinkType string `koanf:"link_type" toml:"link_type"`
}

// UserConfigPath returns the config file location, honouring DOLINK_CONFIG.
func UserConfigPath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appDir, "config.toml")
	}
	return filepath.Join(xdg.ConfigHome, appDir, "config.toml")
}

// Load resolves the configuration. overrides are applied last and are
// keyed like the TOML file (e.g. "dry_run"); nil is fine.
func Load(overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config file if it exists
	userPath := UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", userPath).
				WithDetail("path", userPath)
		}
	}

	// 3. Environment; a double underscore separates nested keys
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfigFile {
			return ""
		}
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Command-line overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return errors.Newf(errors.ErrConfigValid, "invalid output format %q (want text or json)", c.Output).
			WithDetail("key", "output")
	}
	if _, err := types.ParseLinkType(c.Defaults.LinkType); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid defaults.link_type").
			WithDetail("key", "defaults.link_type")
	}
	return nil
}
