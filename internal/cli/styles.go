package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/internal/ui/pretty"
	"github.com/yaklabco/mdpane/pkg/style"
)

// builtinFile labels the built-in profile when it is not installed.
const builtinFile = "(built-in)"

func newStylesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "styles",
		Short:   "Manage preview style profiles",
		GroupID: groupPreview,
		Long:    `Manage the style profiles the preview and exports are drawn with.

Profiles are JSON files in the styles directory
($XDG_CONFIG_HOME/mdpane/styles unless styles_dir is configured), one CSS
rule per selector. The active profile is chosen with the style setting.`,
		Example: `  mdpane styles list
  mdpane styles show Basic
  mdpane styles init`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed style profiles",
		Args:  exactArgs(0),
		RunE:  runStylesList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show [NAME]",
		Short: "Print a style profile as JSON (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStylesShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Install the built-in profile into an empty styles directory",
		Args:  exactArgs(0),
		RunE:  runStylesInit,
	})

	return cmd
}

func runStylesList(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	store, err := sess.store()
	if err != nil {
		return err
	}
	profiles, err := store.List(ctx)
	if err != nil {
		return err
	}

	rows := make([]pretty.StyleRow, 0, len(profiles)+1)
	found := false
	for _, p := range profiles {
		active := isActive(p, sess.cfg.Style)
		found = found || active
		rows = append(rows, pretty.StyleRow{
			Name:   p.DisplayName(),
			File:   p.FileName(),
			Rules:  len(p.CSS),
			Active: active,
		})
	}
	if !found && sess.cfg.Style == style.DefaultName {
		def := style.Default()
		rows = append(rows, pretty.StyleRow{
			Name:   def.DisplayName(),
			File:   builtinFile,
			Rules:  len(def.CSS),
			Active: true,
		})
	}

	table := pretty.NewTableFormatter(sess.styles, sess.color, sess.width)
	fmt.Fprint(sess.out, table.FormatStyles(rows))
	if len(rows) == 0 {
		fmt.Fprintln(sess.out, sess.styles.Dim.Render("no styles in "+store.Dir()))
	}
	return nil
}

func runStylesShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		sess.cfg.Style = args[0]
	}

	p, err := sess.profile(ctx)
	if err != nil {
		return err
	}
	data, err := style.Encode(p)
	if err != nil {
		return err
	}
	_, err = sess.out.Write(data)
	return err
}

func runStylesInit(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	store, err := sess.store()
	if err != nil {
		return err
	}

	wrote, err := store.Init(ctx)
	if err != nil {
		return err
	}
	if !wrote {
		sess.logger.Info("styles directory already has profiles", logging.FieldPath, store.Dir())
		return nil
	}
	fmt.Fprintf(sess.out, "%s %s\n",
		sess.styles.Success.Render("installed"),
		sess.styles.FilePath.Render(filepath.Join(store.Dir(), style.DefaultFile)))
	return nil
}

func isActive(p style.Profile, name string) bool {
	return p.FileName() == name || p.FileName() == name+style.Extension || p.DisplayName() == name
}
