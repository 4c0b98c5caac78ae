package style

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/fsutil"
)

// Sentinel errors for errors.Is.
var (
	// ErrNotFound indicates no profile matched the requested name or file.
	ErrNotFound = errors.New("style not found")

	// ErrNoPath indicates a save without a target path.
	ErrNoPath = errors.New("style has no file path")
)

// Extension is the file extension of profile files.
const Extension = ".json"

// DefaultName is the name of the built-in profile.
const DefaultName = "Basic"

// DefaultFile is the file the built-in profile is written to by Init.
const DefaultFile = "basic.json"

// Default returns the built-in profile used when no styles are installed.
func Default() Profile {
	return Profile{
		Name: DefaultName,
		CSS: Sheet{
			{
				Selector: "body",
				Properties: []Property{
					{Name: "font-family", Value: "Segoe UI, Arial, sans-serif"},
					{Name: "font-size", Value: "14px"},
					{Name: "line-height", Value: "1.6"},
					{Name: "color", Value: "#333333"},
					{Name: "background-color", Value: "#ffffff"},
				},
			},
		},
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/mdpane/styles, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve styles dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mdpane", "styles"), nil
}

// Store reads and writes profiles in a single directory.
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore returns a store over dir. A nil logger uses logging.Default().
func NewStore(dir string, logger *log.Logger) *Store {
	return &Store{dir: dir, logger: logging.OrDefault(logger)}
}

// Dir returns the styles directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the styles directory if needed.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create styles dir: %w", err)
	}
	return nil
}

// List loads every profile in the directory, ordered by file name. Files
// that fail to load are logged and skipped.
func (s *Store) List(ctx context.Context) ([]Profile, error) {
	if err := s.EnsureDir(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read styles dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), Extension) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	profiles := make([]Profile, 0, len(names))
	for _, name := range names {
		p, err := s.Load(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("list styles: %w", ctx.Err())
			}
			s.logger.Warn("skipping style", logging.FieldPath, name, logging.FieldError, err)
			continue
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// Load reads the profile stored in file, a name relative to the styles
// directory.
func (s *Store) Load(ctx context.Context, file string) (Profile, error) {
	path := filepath.Join(s.dir, filepath.Base(file))

	data, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, file)
		}
		return Profile{}, fmt.Errorf("load style: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse %s: %w", file, err)
	}
	p.Path = path

	return p, nil
}

// Save writes p to p.Path, indented four spaces. Non-ASCII text is written
// as is.
func (s *Store) Save(ctx context.Context, p Profile) error {
	if p.Path == "" {
		return ErrNoPath
	}

	data, err := Encode(p)
	if err != nil {
		return err
	}

	if err := fsutil.WriteAtomic(ctx, p.Path, data, 0); err != nil {
		return fmt.Errorf("save style: %w", err)
	}
	return nil
}

// SaveAs writes p to file in the styles directory and returns it with Path
// set.
func (s *Store) SaveAs(ctx context.Context, p Profile, file string) (Profile, error) {
	if err := s.EnsureDir(); err != nil {
		return Profile{}, err
	}

	file = filepath.Base(file)
	if !strings.HasSuffix(file, Extension) {
		file += Extension
	}
	p.Path = filepath.Join(s.dir, file)

	if err := s.Save(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Find returns the profile whose file name or display name equals
// nameOrFile. File names win over display names. The built-in profile is
// found by name even when not installed.
func (s *Store) Find(ctx context.Context, nameOrFile string) (Profile, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return Profile{}, err
	}

	for _, p := range profiles {
		if p.FileName() == nameOrFile || p.FileName() == nameOrFile+Extension {
			return p, nil
		}
	}
	for _, p := range profiles {
		if p.DisplayName() == nameOrFile {
			return p, nil
		}
	}

	if nameOrFile == DefaultName {
		return Default(), nil
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, nameOrFile)
}

// Init writes the built-in profile when the directory holds no profiles.
// It reports whether a file was written.
func (s *Store) Init(ctx context.Context) (bool, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	if len(profiles) > 0 {
		return false, nil
	}

	if _, err := s.SaveAs(ctx, Default(), DefaultFile); err != nil {
		return false, err
	}
	return true, nil
}

// Names returns the display names of profiles, in order.
func Names(profiles []Profile) []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.DisplayName()
	}
	return names
}

// Encode renders p in the on-disk format.
func Encode(p Profile) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode style: %w", err)
	}
	return buf.Bytes(), nil
}
