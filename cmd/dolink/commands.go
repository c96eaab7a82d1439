package dolink

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/dolink/internal/version"
	"github.com/arthur-debert/dolink/pkg/config"
	"github.com/arthur-debert/dolink/pkg/converge"
	"github.com/arthur-debert/dolink/pkg/inspect"
	"github.com/arthur-debert/dolink/pkg/logging"
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/spf13/cobra"
)

// linkFlags are the descriptor fields settable on create and delete.
type linkFlags struct {
	linkType string
	name     string
	owner    string
	group    string
}

func (f *linkFlags) register(cmd *cobra.Command, withAccess bool) {
	cmd.Flags().StringVarP(&f.linkType, "type", "t", "", MsgFlagType)
	cmd.Flags().StringVar(&f.name, "name", "", MsgFlagName)
	if withAccess {
		cmd.Flags().StringVar(&f.owner, "owner", "", MsgFlagOwner)
		cmd.Flags().StringVar(&f.group, "group", "", MsgFlagGroup)
	}
	_ = cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(types.LinkSymbolic), string(types.LinkHard)}, cobra.ShellCompDirectiveNoFileComp
	})
}

func (f *linkFlags) descriptor(g *globals, target, to string) (types.LinkDescriptor, error) {
	linkType, err := g.linkType(f.linkType)
	if err != nil {
		return types.LinkDescriptor{}, err
	}
	desc := types.LinkDescriptor{
		Name:       f.name,
		TargetFile: types.ExpandHome(target),
		LinkType:   linkType,
		To:         types.ExpandHome(to),
		Access:     types.AccessSpec{Owner: f.owner, Group: f.group},
	}
	return desc, desc.Validate()
}

func newConvergeCmd(g *globals, op converge.Operation, use, short, example string) *cobra.Command {
	var flags linkFlags
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := flags.descriptor(g, args[0], args[1])
			if err != nil {
				return err
			}

			result, runErr := g.engine().Run(desc, op)
			if result != nil {
				if err := g.render(cmd.OutOrStdout(), []*converge.Result{result}); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	flags.register(cmd, op == converge.OpCreate)
	return cmd
}

func newCreateCmd(g *globals) *cobra.Command {
	return newConvergeCmd(g, converge.OpCreate, "create <target-file> <to>", MsgCreateShort, MsgCreateExample)
}

func newDeleteCmd(g *globals) *cobra.Command {
	return newConvergeCmd(g, converge.OpDelete, "delete <target-file> <to>", MsgDeleteShort, MsgDeleteExample)
}

func newInspectCmd(g *globals) *cobra.Command {
	var flags linkFlags
	cmd := &cobra.Command{
		Use:     "inspect <target-file> <to>",
		Short:   MsgInspectShort,
		Example: MsgInspectExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := flags.descriptor(g, args[0], args[1])
			if err != nil {
				return err
			}

			snap, err := inspect.New(g.fs).Inspect(desc)
			if err != nil {
				return err
			}
			inSync := inspect.InSync(desc, snap)

			out := cmd.OutOrStdout()
			if g.cfg.Output == config.OutputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					types.LinkSnapshot
					InSync bool `json:"inSync"`
				}{snap, inSync})
			}

			if !snap.Present() {
				fmt.Fprintf(out, MsgInspectAbsent, desc, desc.LinkType)
				return nil
			}
			fmt.Fprintf(out, MsgInspectPresent, desc, desc.LinkType, snap.ResolvedTo)
			if inSync {
				fmt.Fprintf(out, MsgInspectInSync, desc.To)
			} else {
				fmt.Fprintf(out, MsgInspectOutSync, desc.To)
			}
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newApplyCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "apply <manifest>",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.apply")
			path := args[0]

			manifest, err := config.LoadManifest(path)
			if err != nil {
				return fmt.Errorf(MsgErrLoadManifest, err)
			}
			baseDir, err := filepath.Abs(filepath.Dir(path))
			if err != nil {
				return err
			}
			resources, err := manifest.Resources(g.cfg.Defaults, baseDir)
			if err != nil {
				return fmt.Errorf(MsgErrLoadManifest, err)
			}

			engine := g.engine()
			results := make([]*converge.Result, 0, len(resources))
			var runErr error
			for _, res := range resources {
				op, err := converge.ParseOperation(res.Action)
				if err != nil {
					runErr = err
					break
				}
				result, err := engine.Run(res.Descriptor, op)
				if result != nil {
					results = append(results, result)
				}
				if err != nil {
					runErr = err
					break
				}
			}

			logger.Info().
				Str("manifest", path).
				Int("applied", len(results)).
				Int("declared", len(resources)).
				Bool("dryRun", engine.DryRun()).
				Msgf(MsgManifestApplied, len(results), len(resources), path)

			if err := g.render(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			return runErr
		},
	}
}

func newGenConfigCmd(g *globals) *cobra.Command {
	var force, stdout bool
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdout {
				data, err := config.Generate(g.cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path := config.UserConfigPath()
			if err := config.WriteUserConfig(path, g.cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVar(&stdout, "stdout", false, MsgFlagStdout)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
