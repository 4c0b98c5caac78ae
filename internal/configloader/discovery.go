package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the config directories.
const appName = "mdpane"

// Scope identifies where a configuration layer comes from. Scopes are
// ordered from lowest to highest precedence.
type Scope int

// Configuration scopes.
const (
	ScopeSystem Scope = iota
	ScopeUser
	ScopeProject
	ScopeExplicit
)

func (s Scope) String() string {
	switch s {
	case ScopeSystem:
		return "system"
	case ScopeUser:
		return "user"
	case ScopeProject:
		return "project"
	case ScopeExplicit:
		return "explicit"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ConfigPaths holds the configuration file found for each scope. An empty
// string means the scope has no file.
type ConfigPaths struct {
	// System is /etc/mdpane/config.yaml or its Windows equivalent.
	System string

	// User lives under $XDG_CONFIG_HOME/mdpane.
	User string

	// Project is the nearest .mdpane.yml above the working directory.
	Project string

	// Explicit comes from --config.
	Explicit string
}

// Layer is one configuration file to load.
type Layer struct {
	Scope Scope
	Path  string
}

// Layers returns the existing files, lowest precedence first.
func (p *ConfigPaths) Layers() []Layer {
	var layers []Layer
	for _, l := range []Layer{
		{ScopeSystem, p.System},
		{ScopeUser, p.User},
		{ScopeProject, p.Project},
		{ScopeExplicit, p.Explicit},
	} {
		if l.Path != "" {
			layers = append(layers, l)
		}
	}
	return layers
}

// Directory-level file names, in order of preference.
//
//nolint:gochecknoglobals // lookup tables
var (
	dirConfigNames     = []string{"config.yaml", "config.yml", "config.json"}
	projectConfigNames = []string{".mdpane.yml", ".mdpane.yaml", ".mdpane.json", "mdpane.yml", "mdpane.yaml"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths looks up the system, user and project configuration files.
// The project search walks up from workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	paths := &ConfigPaths{System: firstExisting(systemConfigDir(), dirConfigNames)}
	if dir, err := UserConfigDir(); err == nil {
		paths.User = firstExisting(dir, dirConfigNames)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project
	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, appName)
}

// UserConfigDir returns $XDG_CONFIG_HOME/mdpane, or ~/.config/mdpane when
// XDG_CONFIG_HOME is unset.
func UserConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// UserConfigPath returns the existing user config file, or config.yaml in
// the user config directory when there is none yet. Persisted UI state and
// init --user write here.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	if path := firstExisting(dir, dirConfigNames); path != "" {
		return path, nil
	}
	return filepath.Join(dir, dirConfigNames[0]), nil
}

// FindProjectConfig returns the nearest project config file at or above
// startDir. The walk ends without a result at a VCS root, the home
// directory or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if path := firstExisting(dir, projectConfigNames); path != "" {
			return path, nil
		}
		if isVCSRoot(dir) || (home != "" && dir == home) {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// firstExisting returns the first regular file named in names inside dir.
func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
