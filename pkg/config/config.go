// Package config defines the mdpane configuration types.
// These types are plain data; discovery and merging live in internal/configloader.
package config

import "time"

// Default values applied by NewConfig.
const (
	DefaultStyle           = "Basic"
	DefaultLanguage        = "en"
	DefaultFlavor          = "gfm"
	DefaultEditorFontSize  = 14
	DefaultPreviewFontSize = 16
	DefaultDebounceMS      = 300
	DefaultScrollRestoreMS = 100
	DefaultPDFTool         = "wkhtmltopdf"
	DefaultBackupMode      = "sidecar"
)

// LanguageAuto selects the interface language from the environment.
const LanguageAuto = "auto"

// PreviewConfig controls the live preview.
type PreviewConfig struct {
	// Frozen starts the preview with automatic updates suspended.
	Frozen *bool `json:"frozen,omitempty" yaml:"frozen,omitempty"`

	// DebounceMS is the quiet period after the last edit before a render.
	DebounceMS int `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`

	// ScrollRestoreMS is the delay before restoring the preview scroll
	// position after a forced render.
	ScrollRestoreMS int `json:"scroll_restore_ms,omitempty" yaml:"scroll_restore_ms,omitempty"`
}

// ExportConfig controls document export.
type ExportConfig struct {
	// PDFTool is the HTML to PDF converter, looked up on PATH.
	PDFTool string `json:"pdf_tool,omitempty" yaml:"pdf_tool,omitempty"`
}

// BackupsConfig controls backups made when saving over a file.
type BackupsConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Mode    string `json:"mode,omitempty" yaml:"mode,omitempty"` // "sidecar" or "none"
}

// Config is the root configuration structure.
type Config struct {
	// Style is a style profile name or file name in the styles directory.
	Style string `json:"style,omitempty" yaml:"style,omitempty"`

	// StylesDir overrides the styles directory.
	StylesDir string `json:"styles_dir,omitempty" yaml:"styles_dir,omitempty"`

	// Language is a catalog code such as "en", or "auto".
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Flavor is the Markdown flavor: "gfm" or "commonmark".
	Flavor string `json:"flavor,omitempty" yaml:"flavor,omitempty"`

	EditorFontSize  int `json:"editor_font_size,omitempty" yaml:"editor_font_size,omitempty"`
	PreviewFontSize int `json:"preview_font_size,omitempty" yaml:"preview_font_size,omitempty"`

	Preview PreviewConfig `json:"preview" yaml:"preview,omitempty"`
	Export  ExportConfig  `json:"export" yaml:"export,omitempty"`
	Backups BackupsConfig `json:"backups" yaml:"backups,omitempty"`

	// CLI-level options (not persisted to config files).

	// Debug raises the log level.
	Debug bool `json:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Style:           DefaultStyle,
		Language:        DefaultLanguage,
		Flavor:          DefaultFlavor,
		EditorFontSize:  DefaultEditorFontSize,
		PreviewFontSize: DefaultPreviewFontSize,
		Preview: PreviewConfig{
			Frozen:          Bool(false),
			DebounceMS:      DefaultDebounceMS,
			ScrollRestoreMS: DefaultScrollRestoreMS,
		},
		Export: ExportConfig{
			PDFTool: DefaultPDFTool,
		},
		Backups: BackupsConfig{
			Enabled: Bool(false),
			Mode:    DefaultBackupMode,
		},
	}
}

// Bool returns a pointer to b, for the optional boolean fields.
func Bool(b bool) *bool {
	return &b
}

// Frozen reports whether the preview starts frozen.
func (c *Config) Frozen() bool {
	return c.Preview.Frozen != nil && *c.Preview.Frozen
}

// BackupsEnabled reports whether saves keep a backup.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled != nil && *c.Backups.Enabled
}

// Debounce returns the preview quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Preview.DebounceMS) * time.Millisecond
}

// ScrollRestoreDelay returns the delay before restoring the preview scroll.
func (c *Config) ScrollRestoreDelay() time.Duration {
	return time.Duration(c.Preview.ScrollRestoreMS) * time.Millisecond
}
