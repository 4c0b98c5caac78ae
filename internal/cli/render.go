package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/config"
	"github.com/yaklabco/mdpane/pkg/fsutil"
)

type renderFlags struct {
	output string
	style  string
	flavor string
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:     "render FILE",
		Short:   "Render a Markdown file to standalone HTML",
		GroupID: groupDocuments,
		Long:    `Render a Markdown file to a standalone HTML document styled with the
active style profile. The document is written to stdout unless --output is
given.`,
		Example: `  mdpane render README.md                 Print HTML to stdout
  mdpane render README.md -o README.html  Write HTML to a file
  mdpane render notes.md --style Night    Use another style profile`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write HTML to this file instead of stdout")
	cmd.Flags().StringVar(&flags.style, "style", "", "style profile name or file name")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "markdown flavor: gfm or commonmark")

	return cmd
}

func runRender(cmd *cobra.Command, path string, flags *renderFlags) error {
	ctx := commandContext(cmd)

	sess, err := newSession(cmd, &config.Config{Style: flags.style, Flavor: flags.flavor})
	if err != nil {
		return err
	}

	opts, err := sess.editorOptions(ctx, true)
	if err != nil {
		return err
	}
	ed, err := sess.openEditor(ctx, path, opts)
	if err != nil {
		return err
	}
	defer ed.Close()

	doc, err := ed.Document()
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	if flags.output == "" {
		_, err = fmt.Fprint(sess.out, doc)
		return err
	}

	if err := fsutil.WriteAtomic(ctx, flags.output, []byte(doc), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	sess.logger.Debug("rendered",
		logging.FieldInput, path,
		logging.FieldOutput, flags.output,
		logging.FieldStyle, ed.Style().DisplayName(),
	)
	fmt.Fprint(sess.out, sess.styles.FormatWrote(flags.output, len(doc)))
	return nil
}
