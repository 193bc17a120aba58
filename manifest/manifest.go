// Package manifest handles easyoop.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up by Load and FindAndLoad.
const FileName = "easyoop.toml"

// DefaultNamespace is used when the manifest names none.
const DefaultNamespace = "zebra"

// Manifest represents an easyoop.toml project configuration.
type Manifest struct {
	Project  Project        `toml:"project"`
	Env      map[string]any `toml:"env"`
	Packages Packages       `toml:"packages"`
	Log      Log            `toml:"log"`

	// Dir is the directory containing the easyoop.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name      string `toml:"name"`
	Namespace string `toml:"namespace"`
	Version   string `toml:"version"`
}

// Packages lists the packages created in the namespace at startup.
type Packages struct {
	Names []string `toml:"names"`
}

// Log configures the logging backend.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the manifest used when no easyoop.toml exists.
func Default(dir string) *Manifest {
	return &Manifest{
		Project: Project{Namespace: DefaultNamespace},
		Env:     map[string]any{},
		Dir:     dir,
	}
}

// Load parses an easyoop.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Project.Namespace == "" {
		m.Project.Namespace = DefaultNamespace
	}
	if m.Env == nil {
		m.Env = map[string]any{}
	}

	for _, name := range m.Packages.Names {
		if err := ValidatePackageName(name); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find an easyoop.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// ValidatePackageName checks a dotted package path. Every segment must be
// non-empty and must not start with "$" or "_", which mark unexported
// members.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("empty package name")
	}
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return fmt.Errorf("package %q has an empty segment", name)
		}
		if seg[0] == '$' || seg[0] == '_' {
			return fmt.Errorf("package %q: segment %q is not exported", name, seg)
		}
	}
	return nil
}

// LogFilePath returns the absolute log file path, or nil when logging goes
// to stderr.
func (m *Manifest) LogFilePath() *string {
	if m.Log.File == "" {
		return nil
	}
	path := m.Log.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.Dir, path)
	}
	return &path
}
