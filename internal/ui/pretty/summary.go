package pretty

import "fmt"

// FormatReplaceSummary formats the outcome of a replace run.
// Example: "3 replacements in notes.md (written)".
func (s *Styles) FormatReplaceSummary(path string, count int, written bool) string {
	if count == 0 {
		return s.Dim.Render("No matches in "+path) + "\n"
	}

	msg := s.Success.Render(plural(count, "replacement", "replacements")) + " in " + s.FilePath.Render(path)
	if written {
		msg += s.Dim.Render(" (written)")
	} else {
		msg += s.Dim.Render(" (dry run; pass --write to save)")
	}
	return msg + "\n"
}

// FormatWrote formats a "wrote PATH (N bytes)" line.
func (s *Styles) FormatWrote(path string, size int) string {
	return fmt.Sprintf("%s %s %s\n",
		s.Success.Render("wrote"),
		s.FilePath.Render(path),
		s.Dim.Render(fmt.Sprintf("(%d bytes)", size)),
	)
}
