package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/config"
	"github.com/yaklabco/mdpane/pkg/editor"
	"github.com/yaklabco/mdpane/pkg/fsutil"
	"github.com/yaklabco/mdpane/pkg/preview"
)

type watchFlags struct {
	output   string
	style    string
	frozen   bool
	debounce int
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:     "watch FILE",
		Short:   "Keep an HTML preview in sync with a Markdown file",
		GroupID: groupPreview,
		Long:    `Watch FILE and re-render its preview to an HTML file whenever it
changes. Bursts of changes are collapsed into one render after the
configured quiet period (preview.debounce_ms). The preview carries the
configured preview zoom.

With --frozen the preview is rendered once and then left alone until the
command is restarted.`,
		Example: `  mdpane watch notes.md                  Writes notes.html
  mdpane watch notes.md -o /tmp/p.html
  mdpane watch notes.md --debounce 100`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "preview HTML path (default: FILE with .html)")
	cmd.Flags().StringVar(&flags.style, "style", "", "style profile name or file name")
	cmd.Flags().BoolVar(&flags.frozen, "frozen", false, "render once, then ignore changes")
	cmd.Flags().IntVar(&flags.debounce, "debounce", 0, "quiet period in milliseconds (default: from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, flags *watchFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	overrides := &config.Config{Style: flags.style}
	overrides.Preview.DebounceMS = flags.debounce
	if flags.frozen {
		overrides.Preview.Frozen = config.Bool(true)
	}

	sess, err := newSession(cmd, overrides)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	out := flags.output
	if out == "" {
		out = strings.TrimSuffix(abs, filepath.Ext(abs)) + ".html"
	}

	opts, err := sess.editorOptions(ctx, true)
	if err != nil {
		return err
	}
	opts.Surface = preview.NewFileSurface(out)

	ed, err := sess.openEditor(ctx, abs, opts)
	if err != nil {
		return err
	}
	defer ed.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	sess.logger.Info("watching",
		logging.FieldPath, path,
		logging.FieldOutput, out,
		logging.FieldFrozen, ed.Frozen(),
	)

	err = watchLoop(logging.WithDocument(ctx, sess.logger, abs), watcher, ed, abs)

	stats := ed.PreviewStats()
	sess.logger.Info("stopped watching",
		logging.FieldRenders, stats.Renders,
		logging.FieldFailures, stats.Failures,
	)
	return err
}

// watchLoop feeds changes of path into the editor until ctx is done.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, ed *editor.Editor, path string) error {
	logger := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", logging.FieldEvent, event.Op.String())
			if err := reload(ctx, ed, path); err != nil {
				logger.Warn("reload failed", logging.FieldError, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)
		}
	}
}

// reload replaces the editor text with the file's content. The edit goes
// through the preview debounce like typing does.
func reload(ctx context.Context, ed *editor.Editor, path string) error {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	if text := string(content); text != ed.Text() {
		ed.SetText(text)
	}
	return nil
}
