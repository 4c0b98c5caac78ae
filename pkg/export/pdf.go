package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpane/internal/logging"
)

// DefaultPDFTool is the converter used when none is configured.
const DefaultPDFTool = "wkhtmltopdf"

// Sentinel errors for errors.Is.
var (
	// ErrToolMissing indicates the PDF converter is not installed.
	ErrToolMissing = errors.New("pdf tool not found")

	// ErrConversion indicates the converter ran and failed.
	ErrConversion = errors.New("pdf conversion failed")
)

// PDF converts HTML documents with a wkhtmltopdf-compatible command:
//
//	tool --encoding utf-8 in.html out.pdf
type PDF struct {
	Tool   string
	Logger *log.Logger
}

// NewPDF returns a converter using tool, or DefaultPDFTool when empty.
func NewPDF(tool string, logger *log.Logger) *PDF {
	if tool == "" {
		tool = DefaultPDFTool
	}
	return &PDF{Tool: tool, Logger: logging.OrDefault(logger)}
}

// Available reports whether the tool can be found.
func (p *PDF) Available() bool {
	_, err := exec.LookPath(p.Tool)
	return err == nil
}

// Export writes doc to a temporary HTML file and converts it to out.
func (p *PDF) Export(ctx context.Context, doc, out string) error {
	tool, err := exec.LookPath(p.Tool)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrToolMissing, p.Tool)
	}

	tmp, err := os.CreateTemp("", "mdpane-*.html")
	if err != nil {
		return fmt.Errorf("create temp html: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp html: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp html: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, "--encoding", "utf-8", tmp.Name(), out)
	cmd.Stderr = &stderr

	p.logger().Debug("running pdf tool", logging.FieldTool, tool, logging.FieldOutput, out)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		p.logger().Error("pdf tool failed",
			logging.FieldTool, tool,
			logging.FieldStderr, msg,
			logging.FieldError, err,
		)
		if msg == "" {
			return fmt.Errorf("%w: %w", ErrConversion, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrConversion, msg, err)
	}

	return nil
}

func (p *PDF) logger() *log.Logger {
	return logging.OrDefault(p.Logger)
}
