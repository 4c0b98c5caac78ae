package configloader

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/mdpane/pkg/config"
)

// envVarPrefix starts every mdpane environment variable.
const envVarPrefix = "MDPANE_"

// ErrInvalidEnv marks an environment variable whose value does not parse.
var ErrInvalidEnv = errors.New("invalid environment variable")

// envMapping binds one variable to the config field it sets.
type envMapping struct {
	field string
	help  string
	apply func(cfg *config.Config, raw string) error
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		set(cfg, raw)
		return nil
	}
}

func intVar(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%q is not an integer", raw)
		}
		set(cfg, n)
		return nil
	}
}

func boolVar(set func(*config.Config, *bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%q is not a boolean (expected true/false/1/0)", raw)
		}
		set(cfg, config.Bool(b))
		return nil
	}
}

// envMappings is keyed by the variable name without the prefix.
//
//nolint:gochecknoglobals // lookup table
var envMappings = map[string]envMapping{
	"STYLE": {"style", "Style profile name or file",
		stringVar(func(c *config.Config, v string) { c.Style = v })},
	"STYLES_DIR": {"styles_dir", "Styles directory",
		stringVar(func(c *config.Config, v string) { c.StylesDir = v })},
	"LANGUAGE": {"language", "Interface language: en, es, or auto",
		stringVar(func(c *config.Config, v string) { c.Language = v })},
	"FLAVOR": {"flavor", "Markdown flavor: gfm or commonmark",
		stringVar(func(c *config.Config, v string) { c.Flavor = v })},
	"EDITOR_FONT_SIZE": {"editor_font_size", "Editor font size, 10 to 36",
		intVar(func(c *config.Config, v int) { c.EditorFontSize = v })},
	"PREVIEW_FONT_SIZE": {"preview_font_size", "Preview font size, 10 to 32",
		intVar(func(c *config.Config, v int) { c.PreviewFontSize = v })},
	"PREVIEW_FROZEN": {"preview.frozen", "Start with the preview frozen: true or false",
		boolVar(func(c *config.Config, v *bool) { c.Preview.Frozen = v })},
	"DEBOUNCE_MS": {"preview.debounce_ms", "Preview quiet period in milliseconds",
		intVar(func(c *config.Config, v int) { c.Preview.DebounceMS = v })},
	"SCROLL_RESTORE_MS": {"preview.scroll_restore_ms", "Scroll restore delay in milliseconds",
		intVar(func(c *config.Config, v int) { c.Preview.ScrollRestoreMS = v })},
	"PDF_TOOL": {"export.pdf_tool", "HTML to PDF converter",
		stringVar(func(c *config.Config, v string) { c.Export.PDFTool = v })},
	"BACKUPS_ENABLED": {"backups.enabled", "Keep backups when saving: true or false",
		boolVar(func(c *config.Config, v *bool) { c.Backups.Enabled = v })},
	"BACKUPS_MODE": {"backups.mode", "Backup mode: sidecar or none",
		stringVar(func(c *config.Config, v string) { c.Backups.Mode = v })},
}

// LoadFromEnv applies every set MDPANE_* variable to cfg. Empty variables
// are ignored. Variables are applied in name order so the first bad one
// reported is stable.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range sortedEnvSuffixes() {
		name := envVarPrefix + suffix
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		if err := envMappings[suffix].apply(cfg, raw); err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidEnv, name, err)
		}
	}
	return nil
}

// GetEnvVarName returns the variable that sets field, or "".
func GetEnvVarName(field string) string {
	for suffix, m := range envMappings {
		if m.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name  string
	Field string
	Help  string
}

// ListEnvVars returns every supported variable, sorted by name.
func ListEnvVars() []EnvVar {
	suffixes := sortedEnvSuffixes()
	vars := make([]EnvVar, 0, len(suffixes))
	for _, suffix := range suffixes {
		m := envMappings[suffix]
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Field: m.field, Help: m.help})
	}
	return vars
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	slices.Sort(suffixes)
	return suffixes
}
