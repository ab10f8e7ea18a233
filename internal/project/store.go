// Package project persists the JSON documents that describe projects: the
// per-project config, the per-project output metadata, and the
// application-wide registry. The document shapes are an interop contract
// with the desktop shell; all three are pretty-printed JSON.
package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"toss-go/internal/toss"
)

// Store reads and writes the per-project config document.
type Store struct{}

// NewStore creates a project config store.
func NewStore() *Store { return &Store{} }

// Read decodes a project config from the provided reader. A missing output
// directory mode decodes as per-folder: projects created before the mode
// existed get the backward-compatible default.
func (s *Store) Read(r io.Reader) (*toss.Project, error) {
	var p toss.Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode project config: %w", err)
	}
	if p.OutputDirectoryMode == "" {
		p.OutputDirectoryMode = toss.ModePerFolder
	}
	if p.Folders == nil {
		p.Folders = []toss.Folder{}
	}
	return &p, nil
}

// Write encodes a project config to the provided writer.
func (s *Store) Write(w io.Writer, p *toss.Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode project config: %w", err)
	}
	return nil
}

// Load reads the project config from projectDir.
func (s *Store) Load(projectDir string) (*toss.Project, error) {
	path := filepath.Join(projectDir, toss.ProjectConfigFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project config not found in %s", projectDir)
		}
		return nil, fmt.Errorf("opening project config: %w", err)
	}
	defer f.Close()

	p, err := s.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading project config from %s: %w", path, err)
	}
	return p, nil
}

// Save writes the project config to projectDir.
func (s *Store) Save(projectDir string, p *toss.Project) error {
	path := filepath.Join(projectDir, toss.ProjectConfigFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	defer f.Close()

	if err := s.Write(f, p); err != nil {
		return fmt.Errorf("writing project config to %s: %w", path, err)
	}
	return nil
}

// Compile-time check that Store implements toss.ProjectStore.
var _ toss.ProjectStore = (*Store)(nil)
