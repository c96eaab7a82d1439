// Package dolink wires the dolink command line.
package dolink

import (
	"fmt"
	"io"

	"github.com/arthur-debert/dolink/internal/version"
	"github.com/arthur-debert/dolink/pkg/cobrax/topics"
	"github.com/arthur-debert/dolink/pkg/config"
	"github.com/arthur-debert/dolink/pkg/converge"
	"github.com/arthur-debert/dolink/pkg/filesystem"
	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/report"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags and the configuration they resolve to.
type globals struct {
	verbosity int
	dryRun    bool
	output    string

	cfg *config.Config
	fs  types.LinkFS
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{fs: filesystem.Default()}

	rootCmd := &cobra.Command{
		Use:     "dolink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := g.load(cmd); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVarP(&g.output, "output", "o", config.OutputText, MsgFlagOutput)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newCreateCmd(g))
	rootCmd.AddCommand(newDeleteCmd(g))
	rootCmd.AddCommand(newInspectCmd(g))
	rootCmd.AddCommand(newApplyCmd(g))
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if err := topics.Install(rootCmd, helpTopics(), topics.NewGlamourRenderer()); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// load resolves the configuration, letting explicitly set flags win, and
// sets up logging from the result.
func (g *globals) load(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		overrides["verbosity"] = g.verbosity
	}
	if flags.Changed("dry-run") {
		overrides["dry_run"] = g.dryRun
	}
	if flags.Changed("output") {
		overrides["output"] = g.output
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		logging.SetupLogger(g.verbosity)
		return fmt.Errorf(MsgErrLoadConfig, err)
	}
	logging.SetupLogger(cfg.Verbosity)
	g.cfg = cfg
	return nil
}

func (g *globals) engine() *converge.Engine {
	return converge.New(g.fs, g.cfg.DryRun)
}

// linkType resolves a --type flag value, falling back to the configured default.
func (g *globals) linkType(flag string) (types.LinkType, error) {
	if flag == "" {
		flag = g.cfg.Defaults.LinkType
	}
	return types.ParseLinkType(flag)
}

// render writes results in the configured output format.
func (g *globals) render(w io.Writer, results []*converge.Result) error {
	var err error
	if g.cfg.Output == config.OutputJSON {
		err = report.JSON(w, results)
	} else {
		err = report.Text(w, results)
	}
	if err != nil {
		return fmt.Errorf(MsgErrRender, err)
	}
	return nil
}
