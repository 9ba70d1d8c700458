// Package report prints the per-state merge outcome lines.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitools/dmicopy/internal/merge"
)

var (
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	replacedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	identicalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle      = lipgloss.NewStyle().Bold(true)
)

// Printer writes merge outcomes to out. With quiet set, only Done prints.
type Printer struct {
	out   io.Writer
	quiet bool
	color bool
}

func NewPrinter(out io.Writer, quiet, color bool) *Printer {
	return &Printer{out: out, quiet: quiet, color: color}
}

// Entry prints one report line, e.g. `State 'idle' replaced`.
func (p *Printer) Entry(e merge.Entry) {
	if p.quiet {
		return
	}
	var style lipgloss.Style
	switch e.Outcome {
	case merge.OutcomeAdded:
		style = addedStyle
	case merge.OutcomeReplaced:
		style = replacedStyle
	case merge.OutcomeIdentical:
		style = identicalStyle
	default:
		style = missingStyle
	}
	fmt.Fprintf(p.out, "State '%s' %s\n", e.Name, p.render(style, e.Outcome.String()))
}

// Done prints the closing success line.
func (p *Printer) Done() {
	fmt.Fprintln(p.out, p.render(doneStyle, "done!"))
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}
