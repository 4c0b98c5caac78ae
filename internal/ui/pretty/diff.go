package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdpane/pkg/textdiff"
)

// FormatDiff formats a unified diff with colored markers.
func (s *Styles) FormatDiff(d *textdiff.Diff) string {
	if d.Empty() {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(s.DiffHeader.Render("--- a/"+d.Path) + "\n")
	builder.WriteString(s.DiffHeader.Render("+++ b/"+d.Path) + "\n")

	for _, hunk := range d.Hunks {
		builder.WriteString(s.DiffHunk.Render(hunk.Header()) + "\n")
		for _, line := range hunk.Lines {
			text := line.Prefix() + line.Text
			switch line.Kind {
			case textdiff.Added:
				builder.WriteString(s.DiffAdd.Render(text))
			case textdiff.Removed:
				builder.WriteString(s.DiffRemove.Render(text))
			default:
				builder.WriteString(s.DiffContext.Render(text))
			}
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

// FormatDiffStat formats "N insertions(+), M deletions(-)".
func (s *Styles) FormatDiffStat(d *textdiff.Diff) string {
	return fmt.Sprintf("%s, %s\n",
		s.DiffAdd.Render(plural(d.Added, "insertion", "insertions")+"(+)"),
		s.DiffRemove.Render(plural(d.Removed, "deletion", "deletions")+"(-)"),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
