package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/mdpane/internal/cli"
	"github.com/yaklabco/mdpane/pkg/editor"
	"github.com/yaklabco/mdpane/pkg/export"
	"github.com/yaklabco/mdpane/pkg/fsutil"
	"github.com/yaklabco/mdpane/pkg/style"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "mdpane" {
		t.Errorf("expected Use to be 'mdpane', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expected := [][]string{
		{"render"},
		{"find"},
		{"replace"},
		{"export", "html"},
		{"export", "pdf"},
		{"export", "clipboard"},
		{"styles", "list"},
		{"styles", "show"},
		{"styles", "init"},
		{"watch"},
		{"zoom"},
		{"freeze"},
		{"init"},
		{"version"},
	}

	for _, path := range expected {
		subCmd, _, err := cmd.Find(path)
		if err != nil {
			t.Errorf("expected subcommand %v to exist, got error: %v", path, err)
			continue
		}

		if want := path[len(path)-1]; subCmd.Name() != want {
			t.Errorf("expected subcommand name %q, got %q", want, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	tests := []struct {
		path  []string
		flags []string
	}{
		{[]string{"render"}, []string{"output", "style", "flavor"}},
		{[]string{"find"}, []string{"case-sensitive", "count"}},
		{[]string{"replace"}, []string{"case-sensitive", "write", "first", "context"}},
		{[]string{"export", "pdf"}, []string{"tool", "output"}},
		{[]string{"watch"}, []string{"output", "style", "frozen", "debounce"}},
		{[]string{"zoom"}, []string{"editor"}},
		{[]string{"init"}, []string{"force", "full", "user", "format", "output"}},
	}

	for _, tt := range tests {
		sub, _, err := cmd.Find(tt.path)
		if err != nil {
			t.Fatalf("command %v not found: %v", tt.path, err)
		}
		for _, name := range tt.flags {
			if sub.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q to exist on %v", name, tt.path)
			}
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expectedFlags := []string{"debug", "config", "color", "lang"}

	for _, flagName := range expectedFlags {
		flag := cmd.PersistentFlags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	cmd := cli.NewRootCommand(info)
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	if !bytes.Contains(out.Bytes(), []byte("1.2.3")) {
		t.Errorf("expected version in output, got %q", out.String())
	}
}

func TestArgumentCountIsUsageError(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"find", "only-one-arg.md"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a missing argument")
	}
	if got := cli.ExitCode(err); got != cli.ExitInvalidUsage {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitInvalidUsage, got, err)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"no matches", cli.ErrNoMatches, cli.ExitNoMatches},
		{"usage", errors.Join(cli.ErrUsage, errors.New("bad")), cli.ExitInvalidUsage},
		{"extension", fmt.Errorf("open: %w", editor.ErrUnsupportedExtension), cli.ExitInvalidUsage},
		{"config", errors.Join(cli.ErrConfig, errors.New("bad yaml")), cli.ExitConfigError},
		{"style", fmt.Errorf("load style: %w", style.ErrNotFound), cli.ExitConfigError},
		{"pdf tool", fmt.Errorf("export pdf: %w", export.ErrToolMissing), cli.ExitUnavailable},
		{"missing file", fmt.Errorf("open: %w", fsutil.ErrNotFound), cli.ExitIOError},
		{"modified", editor.ErrModifiedOnDisk, cli.ExitIOError},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHelpGroupsCommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"--help", "--color", "never"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	help := out.String()
	for _, want := range []string{"Usage:", "Documents:", "Preview:", "Setup:", "render", "watch", "Flags:"} {
		if !strings.Contains(help, want) {
			t.Errorf("expected %q in root help:\n%s", want, help)
		}
	}
	if strings.Index(help, "Documents:") > strings.Index(help, "Preview:") {
		t.Error("expected groups in registration order")
	}
}

func TestHelpFlagOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"help first", []string{"--help", "--color", "never"}, "Documents:"},
		{"color first", []string{"--color", "never", "--help"}, "Documents:"},
		{"inline value", []string{"--help", "--color=never"}, "Documents:"},
		{"short help", []string{"-h", "--color", "never"}, "Documents:"},
		{"subcommand", []string{"find", "--help", "--color", "never"}, "--case-sensitive"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			cmd.SetArgs(tc.args)

			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("%v: help failed: %v", tc.args, err)
			}
			if !strings.Contains(out.String(), tc.want) {
				t.Errorf("%v: expected %q in help:\n%s", tc.args, tc.want, out.String())
			}
		})
	}
}

func TestHelpShowsExamplesAndFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"replace", "--help", "--color", "never"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	help := out.String()
	for _, want := range []string{
		"Examples:",
		"mdpane replace notes.md colour color --write",
		"-c, --case-sensitive",
		"--context int",
		"(default 3)",
		"--config string",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("expected %q in replace help:\n%s", want, help)
		}
	}
	if strings.Contains(help, "\x1b[") {
		t.Error("expected no escape codes with --color never")
	}
}
