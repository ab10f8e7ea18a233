package toss

import "time"

// OutputDirectoryMode controls the physical layout of a project's sorted output.
type OutputDirectoryMode string

const (
	// ModeUnified puts every kept/maybe file from every folder into shared
	// {project}/keep and {project}/maybe directories, with provenance tracked
	// in the output metadata document.
	ModeUnified OutputDirectoryMode = "unified"

	// ModePerFolder gives each source folder its own
	// {project}/{folder basename}/keep and .../maybe subtree.
	ModePerFolder OutputDirectoryMode = "per-folder"
)

// Valid reports whether m is one of the known output directory modes.
func (m OutputDirectoryMode) Valid() bool {
	return m == ModeUnified || m == ModePerFolder
}

// OutputMode controls how classified files are transferred out of a source folder.
type OutputMode string

const (
	OutputMove OutputMode = "move" // rename; source is gone afterwards
	OutputCopy OutputMode = "copy" // copy; source stays in place
)

// Valid reports whether m is one of the known transfer modes.
func (m OutputMode) Valid() bool {
	return m == OutputMove || m == OutputCopy
}

// Folder is a source folder aggregated into a project.
// The id is generated once and never reused; it is the durable key used by
// output metadata. The per-folder output subtree is named after the basename
// of SourcePath, not the id (the on-disk contract of the desktop app).
type Folder struct {
	ID         string     `json:"id"`
	SourcePath string     `json:"source_path"`
	OutputMode OutputMode `json:"output_mode"`
	AddedAt    time.Time  `json:"added_at"`
}

// Project is one independent triage project aggregating several source folders.
type Project struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	CreatedAt           time.Time           `json:"created_at"`
	OutputDirectoryMode OutputDirectoryMode `json:"output_directory_mode"`
	Folders             []Folder            `json:"folders"`
}

// FindFolder returns the folder with the given id, or nil if the project has
// no such folder.
func (p *Project) FindFolder(id string) *Folder {
	for i := range p.Folders {
		if p.Folders[i].ID == id {
			return &p.Folders[i]
		}
	}
	return nil
}

// OutputMetadata maps an output filename to the id of the source folder it
// originated from. It exists only under unified mode; under per-folder mode
// the directory structure itself carries provenance.
type OutputMetadata struct {
	FileOrigins map[string]string `json:"file_origins"`
}

// NewOutputMetadata returns an empty metadata document.
func NewOutputMetadata() *OutputMetadata {
	return &OutputMetadata{FileOrigins: make(map[string]string)}
}

// RegistryEntry is one project in the application-wide registry document.
type RegistryEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectSummary is a registry entry enriched with folder info read from the
// project config, for project listings.
type ProjectSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	FolderCount int        `json:"folder_count"`
	FolderNames []string   `json:"folder_names"`
}

// ImageInfo describes one image file found in a directory scan.
type ImageInfo struct {
	ID      string     `json:"id"` // stable short hash of the path
	Path    string     `json:"path"`
	Name    string     `json:"name"`
	Size    int64      `json:"size"`
	Width   *int       `json:"width,omitempty"`
	Height  *int       `json:"height,omitempty"`
	TakenAt *time.Time `json:"taken_at,omitempty"` // EXIF capture time, when present
}

// OutputImage is an image in a keep/maybe output directory together with the
// id of the source folder it came from. SourceFolderID is empty when the
// origin cannot be recovered (unified mode with a missing metadata entry).
type OutputImage struct {
	ImageInfo
	SourceFolderID string `json:"source_folder_id"`
}

// FolderStats holds image counts for a single folder.
// Under unified mode KeepCount and MaybeCount are zero: output files cannot
// be attributed to a folder without scanning the metadata.
type FolderStats struct {
	FolderID    string `json:"folder_id"`
	FolderName  string `json:"folder_name"`
	SourceCount int    `json:"source_count"`
	KeepCount   int    `json:"keep_count"`
	MaybeCount  int    `json:"maybe_count"`
}

// ProjectStats aggregates keep/maybe counts across a whole project.
type ProjectStats struct {
	TotalKeep   int           `json:"total_keep"`
	TotalMaybe  int           `json:"total_maybe"`
	FolderStats []FolderStats `json:"folder_stats"`
}

// Batch is one triage invocation for a single folder: three sets of absolute
// source file paths plus the transfer mode to apply to keep/maybe files.
// Discards always go to the trash regardless of OutputMode.
type Batch struct {
	Keep       []string
	Maybe      []string
	Discard    []string
	OutputMode OutputMode
}
