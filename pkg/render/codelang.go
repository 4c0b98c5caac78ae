package render

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// classifierCandidates limits the enry classifier to languages commonly
// found in Markdown documents.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "C#", "SQL", "JSON", "YAML", "HTML", "CSS",
	"Markdown", "Dockerfile", "PowerShell",
}

// languageHint recognizes a language from an unmistakable marker in the
// snippet.
type languageHint struct {
	lang  string
	match func(code string, trimmed string) bool
}

//nolint:gochecknoglobals // Read-only lookup table.
var languageHints = []languageHint{
	{"go", func(_, t string) bool { return strings.HasPrefix(t, "package ") }},
	{"html", func(_, t string) bool {
		lower := strings.ToLower(t)
		return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
	}},
	{"json", func(_, t string) bool {
		return (strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")) && strings.Contains(t, `"`) &&
			(strings.HasSuffix(t, "}") || strings.HasSuffix(t, "]"))
	}},
	{"python", func(c, _ string) bool {
		return strings.Contains(c, "__name__") || (strings.Contains(c, "def ") && strings.Contains(c, "):"))
	}},
	{"dockerfile", func(_, t string) bool { return strings.HasPrefix(t, "FROM ") }},
	{"sql", func(_, t string) bool {
		upper := strings.ToUpper(t)
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(c, _ string) bool { return strings.Contains(c, "fn main()") || strings.Contains(c, "println!") }},
}

// DetectLanguage guesses the language of a code snippet and returns its
// fence tag ("go", "python", "bash"...), or "" when unsure.
//
// A shebang line decides first, then a few unmistakable markers, then the
// enry classifier when it is confident.
func DetectLanguage(code []byte) string {
	trimmed := bytes.TrimSpace(code)
	if len(trimmed) == 0 {
		return ""
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return fenceTag(lang)
	}

	text, t := string(code), string(trimmed)
	for _, hint := range languageHints {
		if hint.match(text, t) {
			return hint.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(code, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return ""
}

// fenceTag maps an enry language name to the tag used in code fences.
func fenceTag(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "C#":
		return "csharp"
	default:
		return strings.ToLower(lang)
	}
}
