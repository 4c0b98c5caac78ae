// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// defaultTermWidth is used when the output is not a terminal.
const defaultTermWidth = 100

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles holds the renderers used for command output.
type Styles struct {
	// find
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Match      lipgloss.Style
	Current    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style
	Counter    lipgloss.Style

	// replace previews
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// status lines
	Success lipgloss.Style
	Warning lipgloss.Style
	Failure lipgloss.Style

	// styles list
	TableHeader    lipgloss.Style
	TableActive    lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// ANSI palette indices.
const (
	ansiBlack   = "0"
	ansiRed     = "9"
	ansiGreen   = "10"
	ansiYellow  = "11"
	ansiBlue    = "12"
	ansiCyan    = "14"
	ansiGray    = "8"
	ansiSilver  = "7"
	ansiOrange  = "208"
	ansiDefault = ""
)

// painter builds styles, dropping every attribute when color is off.
type painter struct {
	color bool
}

func (p painter) fg(c string) lipgloss.Style {
	return p.paint(c, ansiDefault)
}

func (p painter) paint(fg, bg string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if !p.color {
		return s
	}
	if fg != ansiDefault {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != ansiDefault {
		s = s.Background(lipgloss.Color(bg))
	}
	return s
}

func (p painter) bold(s lipgloss.Style) lipgloss.Style {
	if !p.color {
		return s
	}
	return s.Bold(true)
}

func (p painter) italic(s lipgloss.Style) lipgloss.Style {
	if !p.color {
		return s
	}
	return s.Italic(true)
}

// NewStyles returns the output styles. With colorEnabled false every style
// renders its input unchanged.
func NewStyles(colorEnabled bool) *Styles {
	p := painter{color: colorEnabled}
	return &Styles{
		FilePath:   p.bold(p.fg(ansiDefault)),
		Location:   p.fg(ansiGray),
		Match:      p.paint(ansiBlack, ansiYellow),
		Current:    p.bold(p.paint(ansiBlack, ansiOrange)),
		SourceLine: p.fg(ansiSilver),
		Caret:      p.fg(ansiOrange),
		Counter:    p.bold(p.fg(ansiBlue)),

		DiffHeader:  p.bold(p.fg(ansiDefault)),
		DiffHunk:    p.fg(ansiCyan),
		DiffAdd:     p.fg(ansiGreen),
		DiffRemove:  p.fg(ansiRed),
		DiffContext: p.fg(ansiGray),

		Success: p.bold(p.fg(ansiGreen)),
		Warning: p.bold(p.fg(ansiYellow)),
		Failure: p.bold(p.fg(ansiRed)),

		TableHeader:    p.bold(p.fg(ansiSilver)),
		TableActive:    p.fg(ansiGreen),
		TableLegend:    p.italic(p.fg(ansiGray)),
		TableSeparator: p.fg(ansiGray),

		Dim:  p.fg(ansiGray),
		Bold: p.bold(p.fg(ansiDefault)),
	}
}

// ValidColorMode reports whether mode is one of auto, always or never.
func ValidColorMode(mode string) bool {
	return slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, mode)
}

// IsColorEnabled resolves a color mode for writer. Auto enables color only
// for a terminal, and only when NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalWidth returns the column count of writer when it is a terminal,
// and a fixed default otherwise.
func TerminalWidth(writer io.Writer) int {
	f, ok := writer.(*os.File)
	if !ok {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
