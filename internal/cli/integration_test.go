package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpane/internal/cli"
	"github.com/yaklabco/mdpane/pkg/export"
)

// workspace is a temp directory with an explicit config file, so runs do
// not depend on the user's configuration.
type workspace struct {
	dir    string
	config string
}

func newWorkspace(t *testing.T, extraConfig string) *workspace {
	t.Helper()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "mdpane.yaml")
	content := "styles_dir: " + filepath.Join(dir, "styles") + "\nlanguage: en\n" + extraConfig
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o644))

	return &workspace{dir: dir, config: cfg}
}

func (w *workspace) write(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(w.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (w *workspace) read(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(w.dir, name))
	require.NoError(t, err)
	return string(data)
}

func (w *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return w.runContext(context.Background(), args...)
}

func (w *workspace) runContext(ctx context.Context, args ...string) (string, error) {
	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", w.config, "--color", "never"}, args...))

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func TestIntegration_Render(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "doc.md", "# Title\n\nSome *text*.\n")

	out, err := ws.run(t, "render", doc)
	require.NoError(t, err)

	assert.Contains(t, out, `<meta charset="UTF-8">`)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<em>text</em>")
	assert.Contains(t, out, "background-color: #ffffff;", "built-in style applied")
	assert.NotContains(t, out, "!important", "exports carry no zoom stylesheet")
}

func TestIntegration_RenderToFile(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "doc.md", "hello\n")
	target := filepath.Join(ws.dir, "out.html")

	out, err := ws.run(t, "render", doc, "-o", target)
	require.NoError(t, err)

	assert.Contains(t, out, "wrote "+target)
	assert.Contains(t, ws.read(t, "out.html"), "<p>hello</p>")
}

func TestIntegration_RenderUnknownStyle(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "doc.md", "hello\n")

	_, err := ws.run(t, "render", doc, "--style", "Nope")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_RenderUnsupportedExtension(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "doc.rst", "hello\n")

	_, err := ws.run(t, "render", doc)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_Find(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		contains []string
		wantErr  error
	}{
		{
			name:     "every match with location",
			args:     []string{"foo"},
			contains: []string{"doc.md:1:1 (current)", "doc.md:1:9", "doc.md:2:1", "1 of 3"},
		},
		{
			name:     "case sensitive",
			args:     []string{"Foo", "--case-sensitive"},
			contains: []string{"doc.md:2:1 (current)", "1 of 1"},
		},
		{
			name:     "localized counter",
			args:     []string{"foo", "--count", "--lang", "es"},
			contains: []string{"1 de 3"},
		},
		{
			name:     "no match",
			args:     []string{"missing"},
			contains: []string{"No results"},
			wantErr:  cli.ErrNoMatches,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := newWorkspace(t, "")
			doc := ws.write(t, "doc.md", "foo bar foo\nFoo baz\n")

			out, err := ws.run(t, append([]string{"find", doc}, tt.args...)...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestIntegration_FindCountOnly(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "doc.md", "aaa\n")

	out, err := ws.run(t, "find", doc, "aa", "--count")
	require.NoError(t, err)
	assert.Equal(t, "1 of 2\n", out)
}

func TestIntegration_ReplaceDryRun(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "doc.md", "foo bar foo\nkeep\n")

	out, err := ws.run(t, "replace", doc, "foo", "baz")
	require.NoError(t, err)

	assert.Contains(t, out, "-foo bar foo")
	assert.Contains(t, out, "+baz bar baz")
	assert.Contains(t, out, "2 replacements in")
	assert.Contains(t, out, "dry run")
	assert.Equal(t, "foo bar foo\nkeep\n", ws.read(t, "doc.md"), "dry run leaves the file alone")
}

func TestIntegration_ReplaceWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"all", []string{"foo", "baz"}, "baz bar baz\nbaz\n"},
		{"first only", []string{"foo", "baz", "--first"}, "baz bar foo\nFOO\n"},
		{"case sensitive", []string{"foo", "baz", "--case-sensitive"}, "baz bar baz\nFOO\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := newWorkspace(t, "")
			doc := ws.write(t, "doc.md", "foo bar foo\nFOO\n")

			out, err := ws.run(t, append(append([]string{"replace", doc}, tt.args...), "--write")...)
			require.NoError(t, err)

			assert.Contains(t, out, "(written)")
			assert.Equal(t, tt.want, ws.read(t, "doc.md"))
		})
	}
}

func TestIntegration_ReplaceBackup(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "backups:\n  enabled: true\n  mode: sidecar\n")
	doc := ws.write(t, "doc.md", "old\n")

	_, err := ws.run(t, "replace", doc, "old", "new", "--write")
	require.NoError(t, err)

	assert.Equal(t, "new\n", ws.read(t, "doc.md"))
	assert.Equal(t, "old\n", ws.read(t, "doc.md.mdpane.bak"))
}

func TestIntegration_ReplaceNoMatch(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "doc.md", "text\n")

	out, err := ws.run(t, "replace", doc, "missing", "x", "--write")
	require.ErrorIs(t, err, cli.ErrNoMatches)
	assert.Contains(t, out, "No matches in")
	assert.Equal(t, "text\n", ws.read(t, "doc.md"))
}

func TestIntegration_ExportHTML(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "report.md", "# Report\n")

	out, err := ws.run(t, "export", "html", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported: report.html")

	out, err = ws.run(t, "export", "html", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported: report (1).html")

	assert.Contains(t, ws.read(t, "report.html"), "<h1")
	assert.Contains(t, ws.read(t, "report (1).html"), "<h1")
}

func TestIntegration_ExportPDFWithoutTool(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "report.md", "# Report\n")

	out, err := ws.run(t, "export", "pdf", doc, "--tool", "mdpane-no-such-pdf-tool")
	require.ErrorIs(t, err, export.ErrToolMissing)
	assert.Equal(t, cli.ExitUnavailable, cli.ExitCode(err))
	assert.Contains(t, out, "Error generating PDF")
}

func TestIntegration_Styles(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")

	out, err := ws.run(t, "styles", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(built-in)")
	assert.Contains(t, out, " *  Basic")

	out, err = ws.run(t, "styles", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "installed")
	assert.FileExists(t, filepath.Join(ws.dir, "styles", "basic.json"))

	out, err = ws.run(t, "styles", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "basic.json")
	assert.NotContains(t, out, "(built-in)")

	out, err = ws.run(t, "styles", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Basic"`)
	assert.Contains(t, out, `"background-color": "#ffffff"`)

	_, err = ws.run(t, "styles", "show", "Missing")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_ZoomPersists(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")

	out, err := ws.run(t, "zoom", "in")
	require.NoError(t, err)
	assert.Contains(t, out, "preview: 18px")
	assert.Contains(t, ws.read(t, "mdpane.yaml"), "preview_font_size: 18")

	out, err = ws.run(t, "zoom", "in", "--editor")
	require.NoError(t, err)
	assert.Contains(t, out, "editor:  16px")
	assert.Contains(t, ws.read(t, "mdpane.yaml"), "editor_font_size: 16")

	out, err = ws.run(t, "zoom", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "preview: 16px")

	cfg := ws.read(t, "mdpane.yaml")
	assert.Contains(t, cfg, "styles_dir:", "other settings survive")
	assert.Contains(t, cfg, "editor_font_size: 16")
}

func TestIntegration_ZoomAtLimit(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "preview_font_size: 32\n")

	out, err := ws.run(t, "zoom", "in")
	require.NoError(t, err)
	assert.Contains(t, out, "preview: 32px")
	assert.Contains(t, out, "unchanged")
}

func TestIntegration_Freeze(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")

	out, err := ws.run(t, "freeze", "on")
	require.NoError(t, err)
	assert.Contains(t, out, "Preview frozen")
	assert.Contains(t, ws.read(t, "mdpane.yaml"), "frozen: true")

	out, err = ws.run(t, "freeze", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "Preview live")
	assert.Contains(t, ws.read(t, "mdpane.yaml"), "frozen: false")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	target := filepath.Join(ws.dir, "new.yml")

	out, err := ws.run(t, "init", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, "created configuration file")
	assert.Contains(t, ws.read(t, "new.yml"), "style:")

	_, err = ws.run(t, "init", "--output", target)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = ws.run(t, "init", "--output", target, "--force", "--full")
	require.NoError(t, err)
	assert.Contains(t, ws.read(t, "new.yml"), "MDPANE_PREVIEW_FROZEN")

	_, err = ws.run(t, "init", "--output", target, "--force", "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ws.read(t, "new.yml"), "{"))
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "flavor: wiki\n")
	doc := ws.write(t, "doc.md", "x\n")

	_, err := ws.run(t, "find", doc, "x")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_Watch(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	doc := ws.write(t, "live.md", "# Hello\n")
	target := filepath.Join(ws.dir, "live.html")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := ws.runContext(ctx, "watch", doc, "-o", target, "--debounce", "10")
		done <- err
	}()

	readTarget := func() string {
		data, err := os.ReadFile(target)
		if err != nil {
			return ""
		}
		return string(data)
	}

	require.Eventually(t, func() bool {
		return strings.Contains(readTarget(), "Hello")
	}, 5*time.Second, 20*time.Millisecond, "initial preview")
	assert.Contains(t, readTarget(), "font-size: 16px !important;", "preview carries the zoom stylesheet")

	// Keep writing until the watcher has been registered and picks a change up.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(doc, []byte("# World\n"), 0o644)
		return strings.Contains(readTarget(), "World")
	}, 5*time.Second, 50*time.Millisecond, "preview follows the file")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
