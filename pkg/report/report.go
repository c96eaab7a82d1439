// Package report renders convergence results for people (styled text) and
// for machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dolink/pkg/converge"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Reporter writes convergence results as text lines.
type Reporter struct {
	w      io.Writer
	styles map[string]lipgloss.Style
}

// New creates a Reporter over w. Colors are dropped when color is false.
func New(w io.Writer, theme *Theme, color bool) *Reporter {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Reporter{w: w, styles: theme.Build(r)}
}

func (r *Reporter) style(name, text string) string {
	if s, ok := r.styles[name]; ok {
		return s.Render(text)
	}
	return text
}

// Text renders results with the default theme, detecting color support on w.
func Text(w io.Writer, results []*converge.Result) error {
	return New(w, DefaultTheme(), UseColor(w)).Render(results)
}

// Render writes one header line per result followed by its actions.
func (r *Reporter) Render(results []*converge.Result) error {
	var b strings.Builder
	for _, res := range results {
		if res == nil {
			continue
		}
		r.writeResult(&b, res)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Reporter) writeResult(b *strings.Builder, res *converge.Result) {
	fmt.Fprintf(b, "%s %s\n",
		r.style("Resource", res.Descriptor.String()),
		r.status(res))

	for _, action := range res.Actions {
		line := action.Description
		if res.DryRun {
			line = "Would " + line
		}
		b.WriteString(r.style("Action", "- "+line))
		b.WriteString("\n")
	}
	for _, msg := range res.Assumptions {
		b.WriteString(r.style("Warning", "! "+msg))
		b.WriteString("\n")
	}
	if res.Error != "" {
		b.WriteString("  " + r.style("Error", "x "+res.Error))
		b.WriteString("\n")
	}
}

func (r *Reporter) status(res *converge.Result) string {
	switch {
	case res.Error != "":
		return r.style("Error", "(failed)")
	case len(res.Assumptions) > 0:
		return r.style("DryRun", "(assumed)")
	case res.Changed && res.DryRun:
		return r.style("DryRun", "(would "+string(res.Operation)+")")
	case res.Changed:
		return r.style("Changed", "("+pastTense(res.Operation)+")")
	default:
		return r.style("Unchanged", "(up to date)")
	}
}

func pastTense(op converge.Operation) string {
	switch op {
	case converge.OpCreate:
		return "created"
	case converge.OpDelete:
		return "deleted"
	}
	return string(op)
}

// Document is the JSON shape of a report.
type Document struct {
	Changed bool               `json:"changed"`
	Results []*converge.Result `json:"results"`
}

// JSON writes results as an indented JSON document.
func JSON(w io.Writer, results []*converge.Result) error {
	doc := Document{Results: make([]*converge.Result, 0, len(results))}
	for _, res := range results {
		if res == nil {
			continue
		}
		doc.Changed = doc.Changed || res.Changed
		doc.Results = append(doc.Results, res)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// RenderError writes err as a single styled line.
func (r *Reporter) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.w, r.style("Error", "error: "+err.Error()))
	return werr
}
