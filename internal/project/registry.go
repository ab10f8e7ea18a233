package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"toss-go/internal/toss"
)

// FileRegistry is the application-wide project registry backed by a single
// JSON document in the app data directory.
type FileRegistry struct {
	path string
}

// NewFileRegistry creates a registry stored at the given file path.
func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{path: path}
}

// List returns every registered project. A missing registry document is an
// empty registry.
func (r *FileRegistry) List() ([]toss.RegistryEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []toss.RegistryEntry{}, nil
		}
		return nil, fmt.Errorf("reading project registry: %w", err)
	}

	var entries []toss.RegistryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode project registry %s: %w", r.path, err)
	}
	return entries, nil
}

// Append adds a project to the registry, creating the document (and its
// directory) on first use.
func (r *FileRegistry) Append(e toss.RegistryEntry) error {
	entries, err := r.List()
	if err != nil {
		return err
	}
	entries = append(entries, e)
	return r.write(entries)
}

// Remove filters a project out of the registry. Removing an unknown id is a
// no-op.
func (r *FileRegistry) Remove(id string) error {
	entries, err := r.List()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return r.write(kept)
}

func (r *FileRegistry) write(entries []toss.RegistryEntry) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("writing project registry: %w", err)
	}
	return nil
}

// Compile-time check that FileRegistry implements toss.Registry.
var _ toss.Registry = (*FileRegistry)(nil)
