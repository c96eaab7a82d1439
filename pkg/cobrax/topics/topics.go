// Package topics adds help topics to a Cobra command tree. Topics are
// .md or .txt files read from a filesystem, usually one embedded in the
// binary, and are shown with `<root> help <topic>`.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const optionPrefix = "option-"

type topic struct {
	name    string
	ext     string
	content string
}

// library holds the topics found in a filesystem, keyed by file base name.
type library struct {
	topics   map[string]topic
	renderer Renderer
}

func load(fsys fs.FS, renderer Renderer) (*library, error) {
	lib := &library{topics: make(map[string]topic), renderer: renderer}
	if lib.renderer == nil {
		lib.renderer = plainRenderer{}
	}
	if fsys == nil {
		return lib, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := path.Ext(p)
		if ext != ".md" && ext != ".txt" {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		lib.topics[name] = topic{name: name, ext: ext, content: string(content)}
		return nil
	})
	return lib, err
}

// lookup finds a topic by name. Flag spellings such as --dry-run resolve
// to the option-dry-run topic.
func (l *library) lookup(name string) (topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := l.topics[name]; ok {
		return t, true
	}
	t, ok := l.topics[optionPrefix+name]
	return t, ok
}

func (l *library) names() []string {
	names := make([]string, 0, len(l.topics))
	for name := range l.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *library) render(w io.Writer, t topic) {
	fmt.Fprint(w, l.renderer.Render(t.content, t.ext))
}

func (l *library) writeList(w io.Writer, program string) {
	if len(l.topics) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range l.names() {
		if opt, ok := strings.CutPrefix(name, optionPrefix); ok {
			options = append(options, opt)
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", program)
}

// Install replaces the help command of root with one that also knows the
// topics in fsys. `help topics` lists them; an argument that is neither a
// topic nor a command falls back to the root help. A nil renderer prints
// topics as written.
func Install(root *cobra.Command, fsys fs.FS, renderer Renderer) error {
	lib, err := load(fsys, renderer)
	if err != nil {
		return fmt.Errorf("failed to scan topics: %w", err)
	}

	defaultHelp := root.HelpFunc()
	program := root.Name()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.
Run '` + program + ` help topics' to list the available topics.`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, lib.names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			switch {
			case len(args) == 0:
				defaultHelp(root, args)
				return
			case args[0] == "topics":
				lib.writeList(out, program)
				return
			}
			if t, ok := lib.lookup(args[0]); ok {
				lib.render(out, t)
				return
			}
			target, _, err := root.Find(args)
			if err != nil || target == nil {
				target = root
			}
			defaultHelp(target, args)
		},
	}

	for _, cmd := range root.Commands() {
		if cmd.Name() == "help" {
			root.RemoveCommand(cmd)
			break
		}
	}
	root.SetHelpCommand(helpCmd)
	return nil
}
