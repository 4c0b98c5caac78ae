package pretty_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpane/internal/ui/pretty"
	"github.com/yaklabco/mdpane/pkg/textdiff"
)

func TestFormatMatch_Basic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatMatch("notes.md", pretty.MatchLine{
		Line: 3, Col: 5, Length: 3, Text: "the foo bar",
	}, 80)

	want := "  notes.md:3:5\n" +
		"    the foo bar\n" +
		"        ^~~\n"
	assert.Equal(t, want, out)
}

func TestFormatMatch_CurrentMarker(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatMatch("a.md", pretty.MatchLine{Line: 1, Col: 1, Length: 1, Text: "x", Current: true}, 80)

	assert.Contains(t, out, "a.md:1:1 (current)")
}

func TestFormatMatch_LongLineKeepsMatchVisible(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	text := strings.Repeat("x", 100) + "foo" + strings.Repeat("y", 100)
	out := styles.FormatMatch("a.md", pretty.MatchLine{Line: 1, Col: 101, Length: 3, Text: text}, 60)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "…xxx")
	assert.Contains(t, lines[1], "foo")
	assert.True(t, strings.HasSuffix(lines[1], "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(lines[1]), 60)

	matchCol := utf8.RuneCountInString(lines[1][:strings.Index(lines[1], "foo")])
	assert.Equal(t, matchCol, strings.Index(lines[2], "^"), "caret sits under the match")
}

func TestFormatNotes_Wraps(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	note := strings.TrimSpace(strings.Repeat("word ", 20))
	out := styles.FormatNotes("warning", []string{note}, 40)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "warning: word"))
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat(" ", len("warning: "))))
	assert.Empty(t, styles.FormatNotes("warning", nil, 40))
}

func TestFormatDiff(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	d := textdiff.Compute("doc.md", "a\nb\n", "a\nc\n", textdiff.DefaultContext)

	assert.Equal(t, d.String(), styles.FormatDiff(d), "plain styles render the unified diff")
	assert.Equal(t, "1 insertion(+), 1 deletion(-)\n", styles.FormatDiffStat(d))
	assert.Empty(t, styles.FormatDiff(textdiff.Compute("doc.md", "a", "a", 3)))
}

func TestFormatStyles(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), false, 80)
	out := table.FormatStyles([]pretty.StyleRow{
		{Name: "Basic", File: "basic.json", Rules: 1, Active: true},
		{Name: "Night", File: "night.json", Rules: 7},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "NAME")
	assert.True(t, strings.HasPrefix(lines[2], " *  Basic"))
	assert.True(t, strings.HasPrefix(lines[3], "    Night"))
	assert.Contains(t, lines[5], "active style")
	assert.Empty(t, table.FormatStyles(nil))
}

func TestFormatStyles_TruncatesToTerminal(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), false, 50)
	out := table.FormatStyles([]pretty.StyleRow{
		{Name: "Long", File: strings.Repeat("f", 80) + ".json", Rules: 2},
	})

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n")[:4] {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 50, line)
	}
}

func TestFormatReplaceSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "No matches in a.md\n", styles.FormatReplaceSummary("a.md", 0, false))
	assert.Equal(t, "1 replacement in a.md (written)\n", styles.FormatReplaceSummary("a.md", 1, true))
	assert.Contains(t, styles.FormatReplaceSummary("a.md", 3, false), "3 replacements in a.md (dry run")
}
