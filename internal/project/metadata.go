package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"toss-go/internal/toss"
)

// MetadataStore reads and writes the per-project output metadata document.
type MetadataStore struct{}

// NewMetadataStore creates an output metadata store.
func NewMetadataStore() *MetadataStore { return &MetadataStore{} }

// Load reads the metadata document from projectDir. An absent document is an
// empty mapping, not an error.
func (s *MetadataStore) Load(projectDir string) (*toss.OutputMetadata, error) {
	path := filepath.Join(projectDir, toss.OutputMetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return toss.NewOutputMetadata(), nil
		}
		return nil, fmt.Errorf("reading output metadata: %w", err)
	}

	var m toss.OutputMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode output metadata %s: %w", path, err)
	}
	if m.FileOrigins == nil {
		m.FileOrigins = make(map[string]string)
	}
	return &m, nil
}

// Save rewrites the metadata document in projectDir.
func (s *MetadataStore) Save(projectDir string, m *toss.OutputMetadata) error {
	path := filepath.Join(projectDir, toss.OutputMetadataFile)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing output metadata: %w", err)
	}
	return nil
}

// Delete removes the metadata document. An absent document is not an error.
func (s *MetadataStore) Delete(projectDir string) error {
	err := os.Remove(filepath.Join(projectDir, toss.OutputMetadataFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing output metadata: %w", err)
	}
	return nil
}

// Compile-time check that MetadataStore implements toss.MetadataStore.
var _ toss.MetadataStore = (*MetadataStore)(nil)
