package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/search"
	"github.com/yaklabco/mdpane/pkg/textdiff"
)

type replaceFlags struct {
	caseSensitive bool
	write         bool
	first         bool
	context       int
}

func newReplaceCommand() *cobra.Command {
	flags := &replaceFlags{}

	cmd := &cobra.Command{
		Use:     "replace FILE QUERY REPLACEMENT",
		Short:   "Replace occurrences of a query in a file",
		GroupID: groupDocuments,
		Long:    `Replace occurrences of QUERY in FILE with REPLACEMENT.

By default every occurrence is replaced and the change is shown as a
unified diff without touching the file. Pass --write to save it; the save
refuses to overwrite a file that changed on disk after it was read.`,
		Example: `  mdpane replace notes.md colour color
  mdpane replace notes.md colour color --write
  mdpane replace notes.md TODO DONE --first --case-sensitive`,
		Args: exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(cmd, args[0], args[1], args[2], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.caseSensitive, "case-sensitive", "c", false, "match case exactly")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "save the result instead of printing a diff")
	cmd.Flags().BoolVar(&flags.first, "first", false, "replace only the first occurrence")
	cmd.Flags().IntVar(&flags.context, "context", textdiff.DefaultContext, "lines of diff context")

	return cmd
}

func runReplace(cmd *cobra.Command, path, query, replacement string, flags *replaceFlags) error {
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

	before := ed.Text()

	ed.ShowFind(true)
	ed.SetCaseSensitive(flags.caseSensitive)
	ed.SetQuery(query)
	ed.SetReplacement(replacement)

	count := 0
	if flags.first {
		err := ed.ReplaceCurrent()
		switch {
		case errors.Is(err, search.ErrNoCurrentMatch):
		case err != nil:
			return fmt.Errorf("replace: %w", err)
		default:
			count = 1
		}
	} else {
		count = ed.ReplaceAll()
	}

	sess.logger.Debug("replace finished",
		logging.FieldQuery, query,
		logging.FieldReplaced, count,
	)

	if count == 0 {
		fmt.Fprint(sess.out, sess.styles.FormatReplaceSummary(path, 0, false))
		return ErrNoMatches
	}

	if !flags.write {
		diff := textdiff.Compute(path, before, ed.Text(), flags.context)
		fmt.Fprint(sess.out, sess.styles.FormatDiff(diff))
		fmt.Fprint(sess.out, sess.styles.FormatDiffStat(diff))
		fmt.Fprint(sess.out, sess.styles.FormatReplaceSummary(path, count, false))
		return nil
	}

	if err := ed.Save(ctx); err != nil {
		return err
	}
	sess.logger.Debug(ed.Status(), logging.FieldPath, path)
	fmt.Fprint(sess.out, sess.styles.FormatReplaceSummary(path, count, true))
	return nil
}
