package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/config"
	"github.com/yaklabco/mdpane/pkg/editor"
	"github.com/yaklabco/mdpane/pkg/export"
)

type exportFlags struct {
	style   string
	pdfTool string
	output  string
}

func newExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export a rendered Markdown file",
		GroupID: groupDocuments,
		Long:    `Export a Markdown file rendered with the active style profile.

Exports never include the preview zoom. HTML files are written next to the
source and never overwrite an existing export: notes.html, then
"notes (1).html" and so on.`,
		Example: `  mdpane export html notes.md
  mdpane export pdf notes.md -o notes.pdf
  mdpane export clipboard notes.md`,
	}

	cmd.PersistentFlags().StringVar(&flags.style, "style", "", "style profile name or file name")

	htmlCmd := &cobra.Command{
		Use:   "html FILE",
		Short: "Write the rendered document next to FILE",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags, exportHTML)
		},
	}

	pdfCmd := &cobra.Command{
		Use:   "pdf FILE",
		Short: "Convert the rendered document to PDF with an external tool",
		Long: `Convert the rendered document to PDF with a wkhtmltopdf-compatible
tool found on PATH. The tool is taken from export.pdf_tool in the
configuration unless --tool is given.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags, exportPDF)
		},
	}
	pdfCmd.Flags().StringVar(&flags.pdfTool, "tool", "", "PDF converter command")
	pdfCmd.Flags().StringVarP(&flags.output, "output", "o", "", "PDF path (default: next to FILE)")

	clipCmd := &cobra.Command{
		Use:   "clipboard FILE",
		Short: "Copy the rendered document to the clipboard",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags, exportClipboard)
		},
	}

	cmd.AddCommand(htmlCmd, pdfCmd, clipCmd)
	return cmd
}

type exportTarget int

const (
	exportHTML exportTarget = iota
	exportPDF
	exportClipboard
)

func runExport(cmd *cobra.Command, path string, flags *exportFlags, target exportTarget) error {
	ctx := commandContext(cmd)

	overrides := &config.Config{Style: flags.style}
	overrides.Export.PDFTool = flags.pdfTool

	sess, err := newSession(cmd, overrides)
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

	switch target {
	case exportHTML:
		out, err := ed.ExportHTML(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(sess.out, sess.styles.Success.Render(ed.Status()))
		sess.logger.Debug("exported", logging.FieldOutput, out)

	case exportPDF:
		out := flags.output
		if out == "" {
			out = pdfPath(ed)
		}
		if !ed.PDFAvailable() {
			sess.logger.Warn("pdf tool not found on PATH", logging.FieldTool, sess.cfg.Export.PDFTool)
		}
		if err := ed.ExportPDF(ctx, out); err != nil {
			fmt.Fprintln(sess.out, sess.styles.Failure.Render(ed.Status()))
			return err
		}
		fmt.Fprintln(sess.out, sess.styles.Success.Render(ed.Status()))

	case exportClipboard:
		if err := ed.CopyHTML(); err != nil {
			return err
		}
		fmt.Fprintln(sess.out, sess.styles.Success.Render(ed.Status()))
	}

	return nil
}

// pdfPath names a PDF export next to the document without overwriting an
// earlier one.
func pdfPath(ed *editor.Editor) string {
	return export.UniquePath(ed.Dir(), ed.BaseName(), ".pdf")
}
