package toss

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Service is the output-management engine: it commits triage batches to
// disk, migrates projects between output layouts, and owns the project and
// registry documents.
//
// Every output-mutating call takes a per-project advisory lock, so
// concurrent calls against the same project directory from one process are
// serialized. Cross-process exclusion remains the caller's responsibility.
type Service struct {
	projects ProjectStore
	metadata MetadataStore
	registry Registry
	fsmgr    FilesystemManager
	trasher  Trasher
	logger   Logger
	clock    Clock
	idgen    IDGenerator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a Service with the provided dependencies.
func NewService(projects ProjectStore, metadata MetadataStore, registry Registry, fsmgr FilesystemManager, trasher Trasher, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		projects: projects,
		metadata: metadata,
		registry: registry,
		fsmgr:    fsmgr,
		trasher:  trasher,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockProject acquires the advisory lock for a project directory and returns
// the matching unlock function.
func (s *Service) lockProject(projectDir string) func() {
	s.mu.Lock()
	l, ok := s.locks[projectDir]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectDir] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// CreateProject creates the project directory under outputPath, writes its
// config, and registers it. The name is sanitized first; a name that is
// empty after sanitizing is invalid input.
func (s *Service) CreateProject(name, outputPath string) (*Project, error) {
	sanitized := SanitizeName(name)
	if sanitized == "" {
		return nil, fmt.Errorf("invalid project name: %q", name)
	}

	projectDir := filepath.Join(outputPath, sanitized)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	p := &Project{
		ID:                  s.idgen.New(),
		Name:                sanitized,
		CreatedAt:           s.clock.Now(),
		OutputDirectoryMode: ModePerFolder,
		Folders:             []Folder{},
	}

	if err := s.projects.Save(projectDir, p); err != nil {
		return nil, fmt.Errorf("saving project config: %w", err)
	}

	if err := s.registry.Append(RegistryEntry{
		ID:        p.ID,
		Name:      p.Name,
		Path:      projectDir,
		CreatedAt: p.CreatedAt,
	}); err != nil {
		return nil, fmt.Errorf("registering project: %w", err)
	}

	s.logger.Info("project created", "id", p.ID, "path", projectDir)
	return p, nil
}

// DeleteProject removes the project from the registry. On-disk files are
// left untouched; deletion is a detach, not a destroy.
func (s *Service) DeleteProject(projectID string) error {
	if err := s.registry.Remove(projectID); err != nil {
		return fmt.Errorf("removing project from registry: %w", err)
	}
	s.logger.Info("project deleted", "id", projectID)
	return nil
}

// ListProjects returns every registered project enriched with folder info
// from its config. A project whose config is unreadable still appears, with
// zero folders.
func (s *Service) ListProjects() ([]ProjectSummary, error) {
	entries, err := s.registry.List()
	if err != nil {
		return nil, fmt.Errorf("reading project registry: %w", err)
	}

	summaries := make([]ProjectSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, s.summarize(e))
	}
	return summaries, nil
}

func (s *Service) summarize(e RegistryEntry) ProjectSummary {
	sum := ProjectSummary{
		ID:          e.ID,
		Name:        e.Name,
		Path:        e.Path,
		CreatedAt:   e.CreatedAt,
		FolderNames: []string{},
	}

	if info, err := os.Stat(filepath.Join(e.Path, ProjectConfigFile)); err == nil {
		mt := info.ModTime()
		sum.UpdatedAt = &mt
	}

	p, err := s.projects.Load(e.Path)
	if err != nil {
		return sum
	}
	sum.FolderCount = len(p.Folders)
	for i, f := range p.Folders {
		if i == 3 {
			break
		}
		sum.FolderNames = append(sum.FolderNames, FolderName(f.SourcePath))
	}
	return sum
}

// GetProject loads the project config from its directory.
func (s *Service) GetProject(projectDir string) (*Project, error) {
	return s.projects.Load(projectDir)
}

// UpdateOutputMode rewrites the project's output directory mode. It does not
// touch the output tree; callers migrate first (or accept a stale layout).
func (s *Service) UpdateOutputMode(projectDir string, mode OutputDirectoryMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown output directory mode: %s", mode)
	}

	unlock := s.lockProject(projectDir)
	defer unlock()

	p, err := s.projects.Load(projectDir)
	if err != nil {
		return err
	}
	p.OutputDirectoryMode = mode
	if err := s.projects.Save(projectDir, p); err != nil {
		return fmt.Errorf("saving project config: %w", err)
	}
	s.logger.Info("output mode updated", "project", p.ID, "mode", mode)
	return nil
}

// AddFolder adds a source folder to the project. The source path must be
// unique within the project. Two folders whose source paths share a basename
// collide on the same per-folder output subtree; this is flagged with a
// warning rather than prevented, since the basename-derived layout is an
// on-disk contract.
func (s *Service) AddFolder(projectDir, sourcePath string, mode OutputMode) (*Folder, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown output mode: %s", mode)
	}

	unlock := s.lockProject(projectDir)
	defer unlock()

	p, err := s.projects.Load(projectDir)
	if err != nil {
		return nil, err
	}

	for _, f := range p.Folders {
		if f.SourcePath == sourcePath {
			return nil, fmt.Errorf("folder already added to project: %s", sourcePath)
		}
		if FolderName(f.SourcePath) == FolderName(sourcePath) {
			s.logger.Warn("folder basename collision: per-folder output subtrees will overlap",
				"existing", f.SourcePath, "adding", sourcePath)
		}
	}

	folder := Folder{
		ID:         s.idgen.New(),
		SourcePath: sourcePath,
		OutputMode: mode,
		AddedAt:    s.clock.Now(),
	}
	p.Folders = append(p.Folders, folder)

	if err := s.projects.Save(projectDir, p); err != nil {
		return nil, fmt.Errorf("saving project config: %w", err)
	}

	s.logger.Info("folder added", "project", p.ID, "folder", folder.ID, "path", sourcePath)
	return &folder, nil
}

// RemoveFolder detaches a folder from the project. Output files already
// sorted under it stay where they are; in unified mode their metadata
// entries become orphans and are pruned on the next migration.
func (s *Service) RemoveFolder(projectDir, folderID string) error {
	unlock := s.lockProject(projectDir)
	defer unlock()

	p, err := s.projects.Load(projectDir)
	if err != nil {
		return err
	}

	kept := p.Folders[:0]
	for _, f := range p.Folders {
		if f.ID != folderID {
			kept = append(kept, f)
		}
	}
	p.Folders = kept

	if err := s.projects.Save(projectDir, p); err != nil {
		return fmt.Errorf("saving project config: %w", err)
	}
	s.logger.Info("folder removed", "project", p.ID, "folder", folderID)
	return nil
}

// Trash sends the given paths to the platform trash. All paths are
// attempted; the first failure is returned.
func (s *Service) Trash(paths []string) error {
	var firstErr error
	for _, path := range paths {
		if err := s.trasher.Trash(path); err != nil {
			s.logger.Error("trash failed", "path", path, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("trashing %s: %w", path, err)
			}
		}
	}
	return firstErr
}
