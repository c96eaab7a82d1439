package dolink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Converge filesystem links to a declared state"
	MsgCreateShort     = "Create or correct a link"
	MsgDeleteShort     = "Delete a link if it is the declared kind"
	MsgInspectShort    = "Show the current state of a link"
	MsgApplyShort      = "Converge every link declared in a manifest"
	MsgGenConfigShort  = "Write the default configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgCreateExample = `  dolink create ~/.vimrc ~/dotfiles/vimrc
  dolink create --type hard /srv/a/data.db /srv/b/data.db`
	MsgDeleteExample  = `  dolink delete ~/.vimrc ~/dotfiles/vimrc`
	MsgInspectExample = `  dolink inspect ~/.vimrc ~/dotfiles/vimrc`
	MsgApplyExample   = `  dolink apply links.toml
  dolink apply --dry-run links.yaml`

	// Status messages
	MsgInspectAbsent   = "%s: no %s link\n"
	MsgInspectPresent  = "%s: %s link to %s\n"
	MsgInspectInSync   = "  in sync with %s\n"
	MsgInspectOutSync  = "  differs from %s\n"
	MsgConfigWritten   = "Wrote configuration to %s\n"
	MsgVersionFormat   = "dolink version %s\n  commit: %s\n  built:  %s\n"
	MsgNoCommand       = "no command specified"
	MsgManifestApplied = "applied %d of %d links from %s"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrLoadManifest = "failed to load manifest: %w"
	MsgErrRender       = "failed to render report: %w"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagOutput  = "Output format (text or json)"
	MsgFlagType    = "Link type (symbolic or hard); defaults to defaults.link_type"
	MsgFlagName    = "Resource name used in messages"
	MsgFlagOwner   = "Owner the symbolic link should have (name or uid)"
	MsgFlagGroup   = "Group the symbolic link should have (name or gid)"
	MsgFlagForce   = "Overwrite an existing config file"
	MsgFlagStdout  = "Print the config instead of writing it"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
