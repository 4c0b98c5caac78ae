package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// Template output formats.
const (
	TemplateYAML = "yaml"
	TemplateJSON = "json"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every setting. If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// setting documents one configuration key for the full template.
type setting struct {
	key     string
	value   string
	comment string
}

// templateSections groups the documented settings by YAML section; the
// empty section holds top-level keys.
//
//nolint:gochecknoglobals // Read-only template table.
var templateSections = []struct {
	name     string
	settings []setting
}{
	{
		settings: []setting{
			{"style", `"` + DefaultStyle + `"`, "Style profile, by display name or by file name in the styles directory."},
			{"styles_dir", `""`, "Directory holding style profiles. Empty uses $XDG_CONFIG_HOME/mdpane/styles."},
			{"language", `"` + DefaultLanguage + `"`, "Interface language: en, es, or auto to follow LANG and LC_ALL."},
			{"flavor", DefaultFlavor, "Markdown flavor: gfm or commonmark."},
			{"editor_font_size", fmt.Sprint(DefaultEditorFontSize), "Editor font size in pixels, 10 to 36."},
			{"preview_font_size", fmt.Sprint(DefaultPreviewFontSize), "Preview font size in pixels, 10 to 32."},
		},
	},
	{
		name: "preview",
		settings: []setting{
			{"frozen", "false", "Start with automatic preview updates suspended."},
			{"debounce_ms", fmt.Sprint(DefaultDebounceMS), "Quiet period after the last edit before the preview re-renders."},
			{"scroll_restore_ms", fmt.Sprint(DefaultScrollRestoreMS), "Delay before the preview scroll position is restored after a refresh."},
		},
	},
	{
		name: "export",
		settings: []setting{
			{"pdf_tool", DefaultPDFTool, "HTML to PDF converter, looked up on PATH. Called as: tool --encoding utf-8 in.html out.pdf"},
		},
	},
	{
		name: "backups",
		settings: []setting{
			{"enabled", "false", "Keep the previous content of a file when saving over it."},
			{"mode", DefaultBackupMode, "Backup mode: sidecar writes FILE.mdpane.bak next to the file, none disables backups."},
		},
	},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == TemplateJSON {
		return templateJSON()
	}
	if opts.Format != "" && opts.Format != TemplateYAML {
		return nil, fmt.Errorf("unknown template format %q", opts.Format)
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Style profile name
style: "Basic"

# Markdown flavor: gfm or commonmark
flavor: gfm

# Interface language: en, es, or auto
# language: en

# Font sizes in pixels
# editor_font_size: 14
# preview_font_size: 16

# preview:
#   frozen: false
#   debounce_ms: 300
`)

	return buf.Bytes()
}

// generateFullTemplate documents every setting with its default.
func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	for _, section := range templateSections {
		indent := ""
		buf.WriteString("\n")
		if section.name != "" {
			buf.WriteString(section.name + ":\n")
			indent = "  "
		}
		for i, s := range section.settings {
			if i > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(indent + "# " + wrapComment(s.comment, commentWrapWidth, indent) + "\n")
			buf.WriteString(indent + s.key + ": " + s.value + "\n")
		}
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int, indent string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent+"# ")
}

// templateJSON renders the defaults as indented JSON.
func templateJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(NewConfig(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdpane configuration
# See: https://github.com/yaklabco/mdpane`
}
