package report

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color as written in YAML.
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style as written in YAML.
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	PaddingLeft  int    `yaml:"paddingLeft,omitempty"`
	PaddingRight int    `yaml:"paddingRight,omitempty"`
}

// Theme is a parsed styles definition. Styles are built per renderer so
// that color detection follows the writer being rendered to.
type Theme struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// DefaultTheme returns the embedded theme.
func DefaultTheme() *Theme {
	theme, err := ParseTheme(embeddedStyles)
	if err != nil {
		// Embedded data is part of the build; fall back to unstyled output.
		return &Theme{}
	}
	return theme
}

// ParseTheme decodes a YAML styles definition.
func ParseTheme(data []byte) (*Theme, error) {
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}
	return &theme, nil
}

// Build resolves every style against r.
func (t *Theme) Build(r *lipgloss.Renderer) map[string]lipgloss.Style {
	styles := make(map[string]lipgloss.Style, len(t.Styles))
	for name, def := range t.Styles {
		styles[name] = t.buildStyle(r, def)
	}
	return styles
}

func (t *Theme) buildStyle(r *lipgloss.Renderer, def StyleDef) lipgloss.Style {
	style := r.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Foreground != "" {
		if c, ok := t.Colors[def.Foreground]; ok {
			style = style.Foreground(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
		}
	}
	if def.PaddingLeft > 0 || def.PaddingRight > 0 {
		style = style.Padding(0, def.PaddingRight, 0, def.PaddingLeft)
	}
	return style
}

// UseColor reports whether output written to w should carry ANSI styling.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).EnvColorProfile() != termenv.Ascii
}
