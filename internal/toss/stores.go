package toss

// Document names inside a project directory. These are an interop contract
// with the desktop shell and must not change.
const (
	ProjectConfigFile  = "toss-project.json"
	OutputMetadataFile = "toss-metadata.json"
)

// ProjectStore persists the per-project config document.
type ProjectStore interface {
	// Load reads the project config from projectDir. A missing document is a
	// not-found error. A document without an output directory mode loads as
	// per-folder (projects predating the mode).
	Load(projectDir string) (*Project, error)

	// Save writes the project config to projectDir.
	Save(projectDir string, p *Project) error
}

// MetadataStore persists the per-project output metadata document used in
// unified mode to recover provenance.
type MetadataStore interface {
	// Load reads the metadata document from projectDir. An absent document
	// is an empty mapping, not an error.
	Load(projectDir string) (*OutputMetadata, error)

	// Save rewrites the metadata document in projectDir.
	Save(projectDir string, m *OutputMetadata) error

	// Delete removes the metadata document. Removing an absent document is
	// not an error.
	Delete(projectDir string) error
}

// Registry is the application-wide list of known projects.
// Entries are appended on create and filtered on delete; deleting a project
// is a detach, the on-disk files are left untouched.
type Registry interface {
	List() ([]RegistryEntry, error)
	Append(e RegistryEntry) error
	Remove(id string) error
}
