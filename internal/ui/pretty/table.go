package pretty

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
)

// Table formatting constants.
const (
	activeSymbol   = "*"
	tablePadding   = 2
	minNameWidth   = 12
	minFileWidth   = 16
	minRulesWidth  = 5
	heavySeparator = "="
)

// StyleRow is one style profile in the styles table.
type StyleRow struct {
	Name   string
	File   string
	Rules  int
	Active bool
}

// TableFormatter formats style listings as a table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

type columnWidths struct {
	name  int
	file  int
	rules int
}

// FormatStyles formats the style profiles, marking the active one.
func (t *TableFormatter) FormatStyles(rows []StyleRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths) + "\n")
	builder.WriteString(t.formatSeparator(widths) + "\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths) + "\n")
	}
	builder.WriteString(t.formatSeparator(widths) + "\n")
	builder.WriteString(t.styles.TableLegend.Render(fmt.Sprintf(" %s = active style", activeSymbol)) + "\n")

	return builder.String()
}

// calculateColumnWidths sizes columns to their content, then shrinks the
// file column to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(rows []StyleRow) columnWidths {
	widths := columnWidths{name: minNameWidth, file: minFileWidth, rules: minRulesWidth}
	for _, row := range rows {
		widths.name = max(widths.name, len(row.Name))
		widths.file = max(widths.file, len(row.File))
	}

	if excess := t.totalWidth(widths) - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
		if excess = t.totalWidth(widths) - t.termWidth; excess > 0 {
			widths.name = max(minNameWidth, widths.name-excess)
		}
	}
	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return 1 + len(activeSymbol) + widths.name + widths.file + widths.rules + tablePadding*3
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %s  %-*s  %-*s  %*s",
		strings.Repeat(" ", len(activeSymbol)),
		widths.name, "NAME",
		widths.file, "FILE",
		widths.rules, "RULES",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.totalWidth(widths)))
}

func (t *TableFormatter) formatRow(row StyleRow, widths columnWidths) string {
	marker := " "
	if row.Active {
		marker = activeSymbol
	}

	content := fmt.Sprintf(" %s  %-*s  %-*s  %*d",
		marker,
		widths.name, truncate.StringWithTail(row.Name, uint(widths.name), ellipsis),
		widths.file, truncate.StringWithTail(row.File, uint(widths.file), ellipsis),
		widths.rules, row.Rules,
	)
	if row.Active {
		return t.styles.TableActive.Render(content)
	}
	return content
}
