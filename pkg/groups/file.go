package groups

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// groupsFile is the on-disk YAML layout: a single "groups" mapping of
// name to expression.
type groupsFile struct {
	Groups map[string]string `yaml:"groups"`
}

// LoadFile reads one YAML group file into the registry. Any invalid
// name or expression fails the whole file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading group file: %w", err)
	}

	var f groupsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	names := make([]string, 0, len(f.Groups))
	for name := range f.Groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Set(name, f.Groups[name]); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// LoadDir loads every .yaml and .yml file in dir. A file that fails to
// load is logged and skipped, so one bad file does not block startup.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading groups directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("Warning: skipping %q: %v", entry.Name(), err)
			continue
		}
		loaded++
	}

	log.Printf("Loaded %d group file(s) from %s", loaded, dir)
	return nil
}
