package render

import "strings"

// ComposeDocument wraps an HTML fragment in a standalone UTF-8 document.
// extraCSS, when set, precedes css.
func ComposeDocument(fragment, css, extraCSS string) string {
	if extraCSS != "" {
		css = extraCSS + "\n\n" + css
	}

	var b strings.Builder
	b.Grow(len(fragment) + len(css) + 128)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n    <meta charset=\"UTF-8\">\n    <style>\n")
	b.WriteString(css)
	b.WriteString("\n    </style>\n</head>\n<body>\n")
	b.WriteString(fragment)
	b.WriteString("\n</body>\n</html>")
	return b.String()
}
