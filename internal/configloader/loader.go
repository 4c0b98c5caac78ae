// Package configloader resolves mdpane's configuration from its layered
// sources: built-in defaults, the system, user and project files, an
// explicit --config file, MDPANE_* environment variables and flags.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/config"
	"github.com/yaklabco/mdpane/pkg/fsutil"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir anchors the project config search. Empty means the
	// process working directory.
	WorkingDir string

	// ExplicitPath comes from --config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds values set by flags. It wins over every other source.
	CLIConfig *config.Config

	Logger *log.Logger
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files merged, lowest precedence first.
	LoadedFrom []string

	// Warnings are validation warnings for the merged configuration.
	Warnings []string
}

// skips reports whether opts excludes the scope.
func (o LoadOptions) skips(scope Scope) bool {
	switch scope {
	case ScopeSystem:
		return o.IgnoreSystemConfig
	case ScopeUser:
		return o.IgnoreUserConfig
	case ScopeProject:
		return o.IgnoreProjectConfig
	default:
		return false
	}
}

// Load merges every configuration source, lowest precedence first:
// defaults, system file, user file, project file, explicit file,
// MDPANE_* environment variables, then flags.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.OrDefault(opts.Logger)

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	for _, layer := range paths.Layers() {
		if opts.skips(layer.Scope) {
			continue
		}
		fileCfg, err := loadConfigFile(ctx, layer.Path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.Scope, err)
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.Path)
		logger.Debug("loaded config", logging.FieldPath, layer.Path, "scope", layer.Scope.String())
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	cfg = merge(cfg, opts.CLIConfig)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile reads one configuration file. YAML and JSON files share
// the decoder since JSON is valid YAML. Validation errors name the file;
// warnings wait for the merged configuration so each is reported once.
func loadConfigFile(ctx context.Context, path string) (*config.Config, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if validation := ValidateWithFile(cfg, path); !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	return cfg, nil
}

// WriteConfig writes a configuration file, creating its directory. An
// existing file is an os.ErrExist error unless force is set.
func WriteConfig(ctx context.Context, path string, content []byte, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", os.ErrExist, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), configDirPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

const (
	configDirPermissions  = 0o755
	configFilePermissions = 0o644
)
