package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdpane/pkg/fsutil"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Unset fields stay zero.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Preview.Frozen = cloneBool(c.Preview.Frozen)
	clone.Backups.Enabled = cloneBool(c.Backups.Enabled)
	return &clone
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// UIState is the view state remembered between sessions.
type UIState struct {
	EditorFontSize  int
	PreviewFontSize int
	Frozen          *bool
}

// SaveUI stores state in the config file at path, keeping every other
// setting the file already has. A missing file is created. Zero sizes and
// a nil Frozen leave the stored values alone.
func SaveUI(ctx context.Context, path string, state UIState) error {
	cfg := &Config{}

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read config: %w", err)
	default:
		if cfg, err = FromYAML(content); err != nil {
			return err
		}
	}

	if state.EditorFontSize != 0 {
		cfg.EditorFontSize = state.EditorFontSize
	}
	if state.PreviewFontSize != 0 {
		cfg.PreviewFontSize = state.PreviewFontSize
	}
	if state.Frozen != nil {
		cfg.Preview.Frozen = cloneBool(state.Frozen)
	}

	out, err := cfg.ToYAMLWithHeader(DefaultTemplateHeader())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, out, 0); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
