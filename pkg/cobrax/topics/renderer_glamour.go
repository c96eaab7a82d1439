package topics

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// GlamourRenderer renders markdown topics with glamour. Other formats pass
// through unchanged.
type GlamourRenderer struct {
	// Style is a glamour style name or path; "auto" picks dark or light
	// from the terminal, and non-terminals always get "notty".
	Style string

	// Width wraps output; zero means glamour's default.
	Width int
}

// NewGlamourRenderer creates a markdown renderer using auto style detection
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

func (r *GlamourRenderer) options() []glamour.TermRendererOption {
	var opts []glamour.TermRendererOption
	fd := os.Stdout.Fd()
	switch {
	case !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd):
		opts = append(opts, glamour.WithStandardStyle("notty"))
	case r.Style == "" || r.Style == "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	return opts
}

// Render converts markdown for terminal display, falling back to the raw
// content if glamour fails.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	renderer, err := glamour.NewTermRenderer(r.options()...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
