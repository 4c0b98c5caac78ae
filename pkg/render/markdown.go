// Package render turns Markdown into a standalone, styled HTML document.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Flavor selects the Markdown dialect.
type Flavor string

const (
	// FlavorGFM is GitHub Flavored Markdown: tables, strikethrough, task
	// lists and autolinks.
	FlavorGFM Flavor = "gfm"

	// FlavorCommonMark is CommonMark with tables.
	FlavorCommonMark Flavor = "commonmark"
)

// ErrUnknownFlavor is returned by ParseFlavor.
var ErrUnknownFlavor = errors.New("unknown markdown flavor")

// ParseFlavor parses a flavor name. The empty string means FlavorGFM.
func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(strings.TrimSpace(s))) {
	case "", FlavorGFM:
		return FlavorGFM, nil
	case FlavorCommonMark:
		return FlavorCommonMark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFlavor, s)
	}
}

// Options configures a Renderer.
type Options struct {
	Flavor Flavor

	// DetectLanguages labels fenced code blocks that have no info string
	// with a detected language-* class.
	DetectLanguages bool
}

// Renderer converts Markdown to HTML fragments. It is safe for concurrent
// use.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer. Single newlines inside paragraphs become <br>,
// and raw HTML in the source is passed through.
func New(opts Options) *Renderer {
	var exts []goldmark.Extender
	switch opts.Flavor {
	case FlavorCommonMark:
		exts = append(exts, extension.Table)
	default:
		exts = append(exts, extension.GFM)
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
				renderer.WithNodeRenderers(
					util.Prioritized(&codeBlockRenderer{detect: opts.DetectLanguages}, 100),
				),
			),
		),
	}
}

//nolint:gochecknoglobals // Shared default renderer, safe for concurrent use.
var defaultRenderer = New(Options{Flavor: FlavorGFM, DetectLanguages: true})

// Markdown renders text with the default GFM renderer.
func Markdown(text string) (string, error) {
	return defaultRenderer.Markdown(text)
}

// Markdown renders text to an HTML fragment.
func (r *Renderer) Markdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Document renders text and wraps it with ComposeDocument.
func (r *Renderer) Document(text, css, extraCSS string) (string, error) {
	body, err := r.Markdown(text)
	if err != nil {
		return "", err
	}
	return ComposeDocument(body, css, extraCSS), nil
}

// codeBlockRenderer writes fenced code blocks as <pre><code>, labelling
// unlabelled blocks with a detected language.
type codeBlockRenderer struct {
	detect bool
}

func (c *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, c.renderFencedCodeBlock)
}

func (c *codeBlockRenderer) renderFencedCodeBlock(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	block, ok := node.(*ast.FencedCodeBlock)
	if !ok {
		return ast.WalkContinue, nil
	}

	var code bytes.Buffer
	lines := block.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lang := string(block.Language(source))
	if lang == "" && c.detect {
		lang = DetectLanguage(code.Bytes())
	}

	_, _ = w.WriteString("<pre><code")
	if lang != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML(code.Bytes()))
	_, _ = w.WriteString("</code></pre>\n")

	return ast.WalkSkipChildren, nil
}
