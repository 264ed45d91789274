package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file kept next to the binary.
const FileName = "config.yml"

const fileMode os.FileMode = 0644

// Recognized configuration keys.
const (
	KeyWorkspace   = "workspace"
	KeyNotesFolder = "notes_folder"
)

var (
	// ErrParse matches any *ParseError.
	ErrParse = errors.New("malformed configuration")
	// ErrUnknownKey is returned by Write for keys other than workspace and notes_folder.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// ParseError reports a configuration document that is not valid YAML
// or does not decode into a flat key-value mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Config is the persisted configuration. An empty field means unset.
type Config struct {
	Workspace   string `yaml:"workspace,omitempty"`
	NotesFolder string `yaml:"notes_folder,omitempty"`
}

// Set stores value under key.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyWorkspace:
		c.Workspace = value
	case KeyNotesFolder:
		c.NotesFolder = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Store reads and writes the configuration file.
// It does no locking; concurrent writers race.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for the file at path on fs.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// DefaultPath returns config.yml in the directory of the running executable.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), FileName), nil
}

// Path returns the location of the configuration file.
func (s *Store) Path() string {
	return s.path
}

// EnsureExists creates an empty configuration file if none exists.
func (s *Store) EnsureExists() error {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if exists {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	return f.Close()
}

// Read parses the configuration file. It returns nil without an error
// when the file is absent or empty.
func (s *Store) Read() (*Config, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	// A document holding only comments or "~" decodes to nothing.
	if doc == nil {
		return nil, nil
	}

	return &Config{
		Workspace:   doc[KeyWorkspace],
		NotesFolder: doc[KeyNotesFolder],
	}, nil
}

// Write sets key to value, with surrounding whitespace trimmed, and
// rewrites the whole file. The new content is written to a temporary file
// in the same directory and renamed over the old one.
func (s *Store) Write(key, value string) (*Config, error) {
	cfg, err := s.Read()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if err := cfg.Set(key, strings.TrimSpace(value)); err != nil {
		return nil, err
	}

	if err := s.save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Store) save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+FileName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("sync temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	// TempFile creates 0600; keep the mode EnsureExists uses.
	if err := s.fs.Chmod(tmpName, fileMode); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("chmod temp config: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
