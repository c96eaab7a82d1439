// Package config handles configuration management for dolink.
// It loads layered settings from embedded defaults, the user's TOML config
// file, DOLINK_* environment variables and command-line overrides, and it
// parses link manifests in TOML or YAML.
package config
