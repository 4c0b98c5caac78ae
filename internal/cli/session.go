package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/configloader"
	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/internal/ui/pretty"
	"github.com/yaklabco/mdpane/pkg/config"
	"github.com/yaklabco/mdpane/pkg/editor"
	"github.com/yaklabco/mdpane/pkg/fsutil"
	"github.com/yaklabco/mdpane/pkg/locale"
	"github.com/yaklabco/mdpane/pkg/preview"
	"github.com/yaklabco/mdpane/pkg/render"
	"github.com/yaklabco/mdpane/pkg/style"
	"github.com/yaklabco/mdpane/pkg/zoom"
)

// session is the resolved state a subcommand runs with.
type session struct {
	cfg    *config.Config
	result *configloader.LoadResult
	logger *log.Logger
	locale *locale.Service
	styles *pretty.Styles
	color  bool
	out    io.Writer
	width  int
}

// newSession loads configuration for cmd, layering overrides on top of the
// discovered files and environment.
func newSession(cmd *cobra.Command, overrides *config.Config) (*session, error) {
	ctx := commandContext(cmd)
	logger := logging.Default()

	if overrides == nil {
		overrides = &config.Config{}
	}
	if lang, _ := cmd.Flags().GetString(flagLang); lang != "" {
		overrides.Language = lang
	}
	if debug, _ := cmd.Flags().GetBool(flagDebug); debug {
		overrides.Debug = true
	}

	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    overrides,
		Logger:       logger,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}

	colorMode, err := cmd.Flags().GetString(flagColor)
	if err != nil {
		colorMode = pretty.ColorAuto
	}
	if !pretty.ValidColorMode(colorMode) {
		return nil, errors.Join(ErrUsage, fmt.Errorf("invalid --color %q: must be auto, always or never", colorMode))
	}
	out := cmd.OutOrStdout()
	color := pretty.IsColorEnabled(colorMode, out)

	svc := locale.New(locale.Fallback)
	preferred := result.Config.Language
	if preferred == config.LanguageAuto {
		preferred = ""
	}
	svc.SetLanguage(svc.Resolve(preferred))

	return &session{
		cfg:    result.Config,
		result: result,
		logger: logger,
		locale: svc,
		styles: pretty.NewStyles(color),
		color:  color,
		out:    out,
		width:  pretty.TerminalWidth(out),
	}, nil
}

// store returns the style store for the configured styles directory.
func (s *session) store() (*style.Store, error) {
	dir := s.cfg.StylesDir
	if dir == "" {
		var err error
		if dir, err = style.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return style.NewStore(dir, s.logger), nil
}

// profile resolves the configured style profile.
func (s *session) profile(ctx context.Context) (style.Profile, error) {
	store, err := s.store()
	if err != nil {
		return style.Profile{}, err
	}
	p, err := store.Find(ctx, s.cfg.Style)
	if err != nil {
		return style.Profile{}, fmt.Errorf("load style: %w", err)
	}
	return p, nil
}

// renderer returns a renderer for the configured flavor.
func (s *session) renderer() (*render.Renderer, error) {
	flavor, err := render.ParseFlavor(s.cfg.Flavor)
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}
	return render.New(render.Options{Flavor: flavor, DetectLanguages: true}), nil
}

// editorOptions builds editor options from the configuration. withStyle
// loads the style profile, which only rendering commands need.
func (s *session) editorOptions(ctx context.Context, withStyle bool) (editor.Options, error) {
	renderer, err := s.renderer()
	if err != nil {
		return editor.Options{}, err
	}

	mode, err := fsutil.ParseBackupMode(s.cfg.Backups.Mode)
	if err != nil {
		return editor.Options{}, errors.Join(ErrConfig, err)
	}

	opts := editor.Options{
		Renderer:     renderer,
		Zoom:         zoom.New(s.cfg.EditorFontSize, s.cfg.PreviewFontSize),
		Locale:       s.locale,
		Backups:      fsutil.BackupConfig{Enabled: s.cfg.BackupsEnabled(), Mode: mode},
		Quiet:        s.cfg.Debounce(),
		RestoreDelay: s.cfg.ScrollRestoreDelay(),
		Frozen:       s.cfg.Frozen(),
		PDFTool:      s.cfg.Export.PDFTool,
		Logger:       s.logger,
		Clock:        preview.SystemClock{},
	}

	if withStyle {
		p, err := s.profile(ctx)
		if err != nil {
			return editor.Options{}, err
		}
		opts.Style = &p
	}

	return opts, nil
}

// openEditor opens path in a new editor.
func (s *session) openEditor(ctx context.Context, path string, opts editor.Options) (*editor.Editor, error) {
	ed := editor.New("", opts)
	if err := ed.Open(ctx, path); err != nil {
		ed.Close()
		return nil, err
	}
	s.logger.Debug(ed.Status(), logging.FieldPath, path)
	return ed, nil
}

// commandContext returns the command's context, or Background when the
// command runs without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
