package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/internal/ui/pretty"
	"github.com/yaklabco/mdpane/pkg/editor"
)

type findFlags struct {
	caseSensitive bool
	count         bool
}

func newFindCommand() *cobra.Command {
	flags := &findFlags{}

	cmd := &cobra.Command{
		Use:     "find FILE QUERY",
		Short:   "Find every occurrence of a query in a file",
		GroupID: groupDocuments,
		Long:    `Find every occurrence of QUERY in FILE and print each one as
path:line:col with the line it sits on, followed by the match counter.

Matching is literal. It ignores case unless --case-sensitive is given, and
overlapping occurrences are all reported. Exits with status 1 when nothing
matches.`,
		Example: `  mdpane find notes.md TODO
  mdpane find notes.md Go --case-sensitive
  mdpane find notes.md foo --count`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.caseSensitive, "case-sensitive", "c", false, "match case exactly")
	cmd.Flags().BoolVar(&flags.count, "count", false, "print only the match counter")

	return cmd
}

func runFind(cmd *cobra.Command, path, query string, flags *findFlags) error {
	ctx := commandContext(cmd)

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	opts, err := sess.editorOptions(ctx, false)
	if err != nil {
		return err
	}
	ed, err := sess.openEditor(ctx, path, opts)
	if err != nil {
		return err
	}
	defer ed.Close()

	lines := findMatches(ed, query, flags.caseSensitive)
	sess.logger.Debug("search finished",
		logging.FieldQuery, query,
		logging.FieldCaseSensitive, flags.caseSensitive,
		logging.FieldMatches, len(lines),
	)

	if !flags.count {
		for _, line := range lines {
			fmt.Fprint(sess.out, sess.styles.FormatMatch(path, line, sess.width))
		}
	}
	fmt.Fprint(sess.out, sess.styles.FormatCounter(ed.Counter()))

	if len(lines) == 0 {
		return ErrNoMatches
	}
	return nil
}

// findMatches runs query through the editor's find bar and returns one line per
// match. The first match is current.
func findMatches(ed *editor.Editor, query string, caseSensitive bool) []pretty.MatchLine {
	ed.ShowFind(false)
	ed.SetCaseSensitive(caseSensitive)
	ed.SetQuery(query)

	st := ed.FindState()
	lines := make([]pretty.MatchLine, 0, len(st.Matches))
	for i, m := range st.Matches {
		pos := ed.Position(m.Start)
		text, _ := ed.Line(pos.Line)
		lines = append(lines, pretty.MatchLine{
			Line:    pos.Line,
			Col:     pos.Col,
			Length:  m.Len(),
			Text:    text,
			Current: i == st.Current,
		})
	}
	return lines
}
