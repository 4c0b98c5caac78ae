//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "mdpane"
	binPath = "bin/" + binary
	mainPkg = "./cmd/" + binary
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":     Build,
	"t":     Test.Default,
	"l":     Lint.Default,
	"c":     Check,
	"i":     Install,
	"fmt":   Lint.Fmt,
	"smoke": Bench.Smoke,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/mdpane with version info when sources changed.
func Build() error {
	stale, err := target.Dir(binPath, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binPath, "is up to date")
		return nil
	}
	fmt.Println("Building", binary+"...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binPath, mainPkg)
}

// Check formats, lints and tests, in that order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Uninstall removes the binary go install placed.
func Uninstall() error {
	path, err := installedBinary()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Println(binary, "is not installed")
		return nil
	case err != nil:
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Println("Removed", path)
	return nil
}

// Deps downloads and tidies modules.
func Deps() error {
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage writes coverage.html from a full test run.
func Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs every test with the race detector and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "./...")
}

// Verbose is Default with per-test output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "./...")
}

// Catalogs checks that every interface language defines the same messages.
func (Test) Catalogs() error {
	return sh.RunV("go", "test", "-run", "TestCatalogsHaveSameKeys", "./pkg/locale/")
}

// Editor runs the document, search and preview packages that make up the
// editing core.
func (Test) Editor() error {
	return gotestsum("testname",
		"./pkg/document/...", "./pkg/search/...", "./pkg/preview/...", "./pkg/editor/...")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without fixing anything.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nrun 'stave lint:fmt'", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs everything CI requires.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		Test.Catalogs,
		CI.ModTidy,
		CI.Cross,
	)
	fmt.Println("✓ CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before, err := readAll(files)
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readAll(files)
	if err != nil {
		return err
	}
	for i, name := range files {
		if !bytes.Equal(before[i], after[i]) {
			return fmt.Errorf("%s changed after 'go mod tidy'; commit the result", name)
		}
	}
	return nil
}

// Cross builds for every release platform. The clipboard and terminal
// packages carry per-OS code, so each target is compiled.
func (CI) Cross() error {
	targets := map[string][]string{
		"linux":   {"amd64", "arm64"},
		"darwin":  {"amd64", "arm64"},
		"windows": {"amd64", "arm64"},
		"freebsd": {"amd64"},
	}
	for goos, arches := range targets {
		for _, goarch := range arches {
			env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
			if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
				return fmt.Errorf("build %s/%s: %w", goos, goarch, err)
			}
		}
	}
	return nil
}

// Default runs Go benchmarks.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench=.", "-benchmem", "./...")
}

// Smoke builds the binary and drives render, find and export against a
// sample document. The PDF step runs only when the converter is installed.
func (Bench) Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "mdpane-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	doc := filepath.Join(dir, "smoke.md")
	sample := "# Smoke\n\nSome *text* with `code`.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	if err := os.WriteFile(doc, []byte(sample), 0o644); err != nil {
		return err
	}

	steps := [][]string{
		{"render", doc, "-o", filepath.Join(dir, "smoke.html")},
		{"find", doc, "smoke"},
		{"export", "html", doc},
	}
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		steps = append(steps, []string{"export", "pdf", doc})
	} else {
		fmt.Println("wkhtmltopdf not found; skipping pdf export")
	}

	start := time.Now()
	for _, args := range steps {
		if err := sh.RunV(binPath, args...); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	}
	fmt.Printf("✓ smoke run took %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func gotestsum(format string, pkgs ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	args := []string{"tool", "gotestsum", "-f", format, "--",
		"-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "-covermode=atomic",
	}
	return sh.RunV("go", append(args, pkgs...)...)
}

func readAll(paths []string) ([][]byte, error) {
	out := make([][]byte, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		out[i] = data
	}
	return out, nil
}

func git(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects version, commit and build date into main.
func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}

// installedBinary returns where go install puts the binary.
func installedBinary() (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, binary), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", binary), nil
}
