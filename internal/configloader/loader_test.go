package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/config"
)

// projectDir returns a temp directory that bounds the upward config search.
func projectDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		Logger:             logging.Discard(),
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.Flavor != config.DefaultFlavor {
		t.Errorf("expected flavor %q, got %q", config.DefaultFlavor, result.Config.Flavor)
	}
	if result.Config.PreviewFontSize != config.DefaultPreviewFontSize {
		t.Errorf("expected preview size %d, got %d", config.DefaultPreviewFontSize, result.Config.PreviewFontSize)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.yml"), `
flavor: commonmark
preview_font_size: 20
preview:
  debounce_ms: 150
backups:
  enabled: true
`)

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != "commonmark" {
		t.Errorf("expected flavor commonmark, got %q", cfg.Flavor)
	}
	if cfg.PreviewFontSize != 20 {
		t.Errorf("expected preview size 20, got %d", cfg.PreviewFontSize)
	}
	if cfg.Preview.DebounceMS != 150 {
		t.Errorf("expected debounce 150, got %d", cfg.Preview.DebounceMS)
	}
	if cfg.Preview.ScrollRestoreMS != config.DefaultScrollRestoreMS {
		t.Errorf("unset fields keep defaults, got scroll_restore_ms %d", cfg.Preview.ScrollRestoreMS)
	}
	if !cfg.BackupsEnabled() {
		t.Error("expected backups enabled")
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_ProjectConfigFoundUpward(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.yaml"), "style: Night\n")
	nested := filepath.Join(dir, "docs", "guide")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Style != "Night" {
		t.Errorf("expected style Night, got %q", result.Config.Style)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".mdpane.yml"), "style: Outer\n")
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected search to stop at the repository root, found %s", path)
	}
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.yml"), "style: Project\nlanguage: es\n")
	custom := filepath.Join(dir, "custom.yml")
	writeFile(t, custom, "style: Explicit\n")

	opts := isolated(dir)
	opts.ExplicitPath = custom

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Style != "Explicit" {
		t.Errorf("expected style Explicit, got %q", result.Config.Style)
	}
	if result.Config.Language != "es" {
		t.Errorf("expected project language to survive, got %q", result.Config.Language)
	}
	if result.Paths.Explicit != custom {
		t.Errorf("expected explicit path %s, got %s", custom, result.Paths.Explicit)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != custom {
		t.Errorf("expected project then explicit, got %v", result.LoadedFrom)
	}
}

func TestLoad_LaterLayerCanDisableBoolean(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.yml"), "preview:\n  frozen: true\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{Preview: config.PreviewConfig{Frozen: config.Bool(false)}}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Frozen() {
		t.Error("expected CLI to unfreeze the preview")
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.yml"), "flavor: commonmark\neditor_font_size: 20\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{Flavor: "gfm", Debug: true}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != "gfm" {
		t.Errorf("expected flavor gfm (CLI override), got %q", result.Config.Flavor)
	}
	if result.Config.EditorFontSize != 20 {
		t.Errorf("expected editor size 20 from project, got %d", result.Config.EditorFontSize)
	}
	if !result.Config.Debug {
		t.Error("expected debug true (CLI override)")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MDPANE_FLAVOR", "commonmark")
	t.Setenv("MDPANE_PREVIEW_FROZEN", "true")
	t.Setenv("MDPANE_DEBOUNCE_MS", "500")

	opts := isolated(projectDir(t))
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != "commonmark" {
		t.Errorf("expected flavor commonmark, got %q", result.Config.Flavor)
	}
	if !result.Config.Frozen() {
		t.Error("expected frozen preview")
	}
	if result.Config.Preview.DebounceMS != 500 {
		t.Errorf("expected debounce 500, got %d", result.Config.Preview.DebounceMS)
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("MDPANE_EDITOR_FONT_SIZE", "big")

	opts := isolated(projectDir(t))
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "MDPANE_EDITOR_FONT_SIZE") {
		t.Fatalf("expected error naming the variable, got %v", err)
	}
}

func TestLoad_UserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	if err := os.MkdirAll(filepath.Join(home, "mdpane"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	userPath := filepath.Join(home, "mdpane", "config.yaml")
	writeFile(t, userPath, "style: Mine\n")

	opts := isolated(projectDir(t))
	opts.IgnoreUserConfig = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Style != "Mine" {
		t.Errorf("expected style Mine, got %q", result.Config.Style)
	}
	if result.Paths.User != userPath {
		t.Errorf("expected user path %s, got %s", userPath, result.Paths.User)
	}

	got, err := UserConfigPath()
	if err != nil {
		t.Fatalf("UserConfigPath() error = %v", err)
	}
	if got != userPath {
		t.Errorf("UserConfigPath() = %s, want %s", got, userPath)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "flavor", content: "flavor: markua\n", field: "flavor"},
		{name: "backup mode", content: "backups:\n  mode: xdg\n", field: "backups.mode"},
		{name: "editor size", content: "editor_font_size: 40\n", field: "editor_font_size"},
		{name: "preview size", content: "preview_font_size: 8\n", field: "preview_font_size"},
		{name: "debounce", content: "preview:\n  debounce_ms: -1\n", field: "preview.debounce_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			path := filepath.Join(dir, ".mdpane.yml")
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolated(dir))

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
			if verr.FilePath != path {
				t.Errorf("expected file path %s, got %s", path, verr.FilePath)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.yml"), "style: [unclosed\n")

	if _, err := Load(context.Background(), isolated(dir)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.yml"), "language: tlh\npreview:\n  debounce_ms: 9000\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", result.Warnings)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	merged := MergeAll(
		config.NewConfig(),
		&config.Config{Style: "A", Backups: config.BackupsConfig{Enabled: config.Bool(true)}},
		&config.Config{Style: "B"},
	)

	if merged.Style != "B" {
		t.Errorf("expected last style to win, got %q", merged.Style)
	}
	if !merged.BackupsEnabled() {
		t.Error("expected backups enabled from the middle layer")
	}
	if merged.Flavor != config.DefaultFlavor {
		t.Errorf("expected default flavor, got %q", merged.Flavor)
	}
	if MergeAll() != nil {
		t.Error("expected nil for no configs")
	}
}

func TestMergeDoesNotAliasBase(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	merged := merge(base, &config.Config{Preview: config.PreviewConfig{Frozen: config.Bool(true)}})

	if base.Frozen() {
		t.Error("merge mutated base")
	}
	if !merged.Frozen() {
		t.Error("expected merged config frozen")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if len(vars) != len(envMappings) {
		t.Fatalf("expected %d vars, got %d", len(envMappings), len(vars))
	}
	for i := 1; i < len(vars); i++ {
		if vars[i-1].Name >= vars[i].Name {
			t.Errorf("not sorted: %s before %s", vars[i-1].Name, vars[i].Name)
		}
	}
	if got := GetEnvVarName("preview.frozen"); got != "MDPANE_PREVIEW_FROZEN" {
		t.Errorf("GetEnvVarName() = %q", got)
	}
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".mdpane.yml")
	ctx := context.Background()

	if err := WriteConfig(ctx, path, []byte("style: A\n"), false); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}
	if err := WriteConfig(ctx, path, []byte("style: B\n"), false); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	if err := WriteConfig(ctx, path, []byte("style: B\n"), true); err != nil {
		t.Fatalf("forced WriteConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "style: B\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestLoad_JSONProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".mdpane.json"), `{"style": "Night", "preview": {"debounce_ms": 250}}`)

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Style != "Night" {
		t.Errorf("expected style Night, got %q", result.Config.Style)
	}
	if result.Config.Preview.DebounceMS != 250 {
		t.Errorf("expected debounce 250, got %d", result.Config.Preview.DebounceMS)
	}
}

func TestConfigPathsLayers(t *testing.T) {
	t.Parallel()

	paths := &ConfigPaths{System: "/etc/mdpane/config.yaml", Project: "/p/.mdpane.yml", Explicit: "/x.yml"}
	layers := paths.Layers()

	want := []Layer{
		{ScopeSystem, "/etc/mdpane/config.yaml"},
		{ScopeProject, "/p/.mdpane.yml"},
		{ScopeExplicit, "/x.yml"},
	}
	if len(layers) != len(want) {
		t.Fatalf("expected %d layers, got %v", len(want), layers)
	}
	for i := range want {
		if layers[i] != want[i] {
			t.Errorf("layer %d = %v, want %v", i, layers[i], want[i])
		}
	}
	if ScopeUser.String() != "user" || Scope(9).String() != "scope(9)" {
		t.Errorf("unexpected scope names %q %q", ScopeUser, Scope(9))
	}
}

func TestLoadFromEnv_ErrorIsTyped(t *testing.T) {
	t.Setenv("MDPANE_BACKUPS_ENABLED", "maybe")

	err := LoadFromEnv(config.NewConfig())
	if !errors.Is(err, ErrInvalidEnv) {
		t.Fatalf("expected ErrInvalidEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "MDPANE_BACKUPS_ENABLED") {
		t.Errorf("error does not name the variable: %v", err)
	}
}
