package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/configloader"
	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/config"
	"github.com/yaklabco/mdpane/pkg/zoom"
)

// Zoom actions.
const (
	zoomIn    = "in"
	zoomOut   = "out"
	zoomReset = "reset"
)

func newZoomCommand() *cobra.Command {
	var editorFont bool

	cmd := &cobra.Command{
		Use:     "zoom [in|out|reset]",
		Short:   "Show or change the saved preview and editor font sizes",
		GroupID: groupPreview,
		Long:    `Show or change the font sizes mdpane starts with. The preview size
ranges from 10 to 32 pixels and the editor size from 10 to 36, in steps of
2. A step past a limit leaves the size unchanged.

The new sizes are saved to the file named by --config, or to the user
configuration file.`,
		Example: `  mdpane zoom                 Print the current sizes
  mdpane zoom in              Grow the preview font
  mdpane zoom out --editor    Shrink the editor font
  mdpane zoom reset`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{zoomIn, zoomOut, zoomReset},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := ""
			if len(args) == 1 {
				action = args[0]
			}
			return runZoom(cmd, action, editorFont)
		},
	}

	cmd.Flags().BoolVar(&editorFont, "editor", false, "change the editor font instead of the preview")

	return cmd
}

func runZoom(cmd *cobra.Command, action string, editorFont bool) error {
	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}

	level := zoom.New(sess.cfg.EditorFontSize, sess.cfg.PreviewFontSize)
	changed := false
	switch {
	case action == "":
	case action == zoomReset && editorFont:
		changed = level.Editor() != zoom.DefaultEditor
		level = zoom.New(zoom.DefaultEditor, level.Preview())
	case action == zoomReset:
		changed = level.ResetPreview()
	case action == zoomIn && editorFont:
		changed = level.EditorIn()
	case action == zoomIn:
		changed = level.PreviewIn()
	case action == zoomOut && editorFont:
		changed = level.EditorOut()
	case action == zoomOut:
		changed = level.PreviewOut()
	default:
		return errors.Join(ErrUsage, fmt.Errorf("unknown zoom action %q", action))
	}

	if changed {
		state := config.UIState{EditorFontSize: level.Editor(), PreviewFontSize: level.Preview()}
		if err := persistUI(cmd, state); err != nil {
			return err
		}
	}

	fmt.Fprintf(sess.out, "%s %s\n", sess.styles.Bold.Render("preview:"), level.Label())
	fmt.Fprintf(sess.out, "%s %dpx\n", sess.styles.Bold.Render("editor: "), level.Editor())
	if action != "" && !changed {
		fmt.Fprintln(sess.out, sess.styles.Dim.Render("unchanged"))
	}
	return nil
}

func newFreezeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "freeze on|off",
		Short:   "Save whether the preview starts frozen",
		GroupID: groupPreview,
		Long:    `Save whether the preview starts frozen. A frozen preview renders once
and then ignores edits until it is unfrozen or refreshed explicitly.`,
		Args:      cobra.MatchAll(exactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, nil)
			if err != nil {
				return err
			}

			frozen := args[0] == "on"
			if err := persistUI(cmd, config.UIState{Frozen: config.Bool(frozen)}); err != nil {
				return err
			}

			key := "status.preview_live"
			if frozen {
				key = "status.preview_frozen"
			}
			fmt.Fprintln(sess.out, sess.locale.T(key))
			return nil
		},
	}
}

// persistUI writes state to the explicit config file, or to the user
// config when none was given.
func persistUI(cmd *cobra.Command, state config.UIState) error {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}
	if path == "" {
		if path, err = configloader.UserConfigPath(); err != nil {
			return fmt.Errorf("resolve user config: %w", err)
		}
	}

	if err := config.SaveUI(commandContext(cmd), path, state); err != nil {
		return err
	}
	logging.Default().Debug("saved ui state", logging.FieldPath, path)
	return nil
}
