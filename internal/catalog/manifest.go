package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"gopkg.in/yaml.v3"
)

// ErrManifest is returned for manifests that cannot be used.
var ErrManifest = errors.New("invalid manifest")

// Manifest is the on-disk YAML form of a selection.
//
//	entries:
//	  - path: cards/dragon.png
//	    title: Dragon
//	    selected: true
//	    cropped: true
type Manifest struct {
	Entries []Entry `yaml:"entries"`
}

// LoadManifest reads a selection manifest. Relative paths are resolved
// against the manifest's directory.
func LoadManifest(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied manifest
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	base := filepath.Dir(path)
	for i := range m.Entries {
		e := &m.Entries[i]
		if e.Path == "" {
			return nil, fmt.Errorf("%w: entry %d has no path", ErrManifest, i)
		}
		if !filepath.IsAbs(e.Path) {
			e.Path = filepath.Join(base, e.Path)
		}
		if e.Title == "" {
			e.Title = CleanTitle(e.Path)
		}
	}
	return m.Entries, nil
}

// SaveManifest writes entries as a YAML manifest, replacing path atomically.
func SaveManifest(path string, entries []Entry) error {
	data, err := yaml.Marshal(Manifest{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
