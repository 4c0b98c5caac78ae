package configloader

import (
	"fmt"
	"os"

	"github.com/yaklabco/mdpane/pkg/config"
	"github.com/yaklabco/mdpane/pkg/fsutil"
	"github.com/yaklabco/mdpane/pkg/locale"
	"github.com/yaklabco/mdpane/pkg/render"
	"github.com/yaklabco/mdpane/pkg/zoom"
)

// slowDebounceMS is the quiet period above which the preview feels stuck.
const slowDebounceMS = 5000

// ValidationError is one problem with a configuration value.
type ValidationError struct {
	Field    string // dotted key, e.g. "preview.debounce_ms"
	Value    any
	Message  string
	FilePath string // empty for the merged configuration
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.FilePath != "" {
		msg = e.FilePath + ": " + msg
	}
	return msg
}

// ValidationResult collects errors, which stop loading, and warnings,
// which are reported and ignored.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" {
		if _, err := render.ParseFlavor(cfg.Flavor); err != nil {
			result.fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: gfm, commonmark", cfg.Flavor)
		}
	}

	if cfg.Backups.Mode != "" {
		if _, err := fsutil.ParseBackupMode(cfg.Backups.Mode); err != nil {
			result.fail("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
		}
	}

	validateFontSize(result, "editor_font_size", cfg.EditorFontSize, zoom.EditorMin, zoom.EditorMax)
	validateFontSize(result, "preview_font_size", cfg.PreviewFontSize, zoom.PreviewMin, zoom.PreviewMax)

	if cfg.Preview.DebounceMS < 0 {
		result.fail("preview.debounce_ms", cfg.Preview.DebounceMS, "debounce_ms must be >= 0")
	} else if cfg.Preview.DebounceMS > slowDebounceMS {
		result.warn("preview.debounce_ms", cfg.Preview.DebounceMS,
			"debounce of %dms will make the preview feel unresponsive", cfg.Preview.DebounceMS)
	}
	if cfg.Preview.ScrollRestoreMS < 0 {
		result.fail("preview.scroll_restore_ms", cfg.Preview.ScrollRestoreMS, "scroll_restore_ms must be >= 0")
	}

	validateLanguage(result, cfg.Language)

	if cfg.StylesDir != "" {
		if info, err := os.Stat(cfg.StylesDir); err == nil && !info.IsDir() {
			result.fail("styles_dir", cfg.StylesDir, "%s is not a directory", cfg.StylesDir)
		}
	}

	return result
}

func validateFontSize(result *ValidationResult, field string, size, lo, hi int) {
	if size == 0 {
		return
	}
	if size < lo || size > hi {
		result.fail(field, size, "%s must be between %d and %d", field, lo, hi)
	}
}

func validateLanguage(result *ValidationResult, lang string) {
	if lang == "" || lang == config.LanguageAuto {
		return
	}
	if !locale.New(locale.Fallback).Has(lang) {
		result.warn("language", lang, "unknown language %q; using %s", lang, locale.Fallback)
	}
}

// ValidateWithFile is Validate with every finding attributed to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for _, findings := range [][]ValidationError{result.Errors, result.Warnings} {
		for i := range findings {
			findings[i].FilePath = filePath
		}
	}
	return result
}
