package toss

import (
	"fmt"
	"os"
	"path/filepath"
)

// Migrate rewrites the project's output tree from its current layout to the
// target mode and returns human-readable descriptions of any collision
// renames ("{original} → {renamed}").
//
// The engine assumes a genuine transition; callers reject no-op migrations.
// Migration is not atomic across the project: it is a sequence of per-file
// renames, each of which skips a source that is no longer present, so
// re-running an interrupted migration toward either target converges without
// duplicating or destroying files.
//
// Migrate only rewrites the tree and the metadata document; the caller flips
// the project's output directory mode separately via UpdateOutputMode.
func (s *Service) Migrate(projectDir string, target OutputDirectoryMode) ([]string, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("unknown output directory mode: %s", target)
	}

	unlock := s.lockProject(projectDir)
	defer unlock()

	p, err := s.projects.Load(projectDir)
	if err != nil {
		return nil, err
	}

	if target == ModeUnified {
		return s.migrateToUnified(projectDir, p)
	}
	return s.migrateToPerFolder(projectDir, p)
}

// migrateToUnified gathers every per-folder keep/maybe file into the shared
// unified directories, conflict-resolving names against the growing
// destination. The metadata document is rebuilt from the surviving prior
// entries plus one entry per moved file, so stale names are pruned without
// losing provenance for files already in place.
func (s *Service) migrateToUnified(projectDir string, p *Project) ([]string, error) {
	conflicts := []string{}

	for _, class := range []string{ClassKeep, ClassMaybe} {
		destDir := filepath.Join(projectDir, class)
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return nil, fmt.Errorf("creating unified %s directory: %w", class, err)
		}
	}

	// Start from the surviving entries of any prior metadata: files already
	// sitting in the unified directories (an interrupted or mistakenly
	// re-run migration) keep their provenance, entries for files absent
	// from both directories are pruned.
	meta, err := s.prunedMetadata(projectDir)
	if err != nil {
		return nil, err
	}

	for _, folder := range p.Folders {
		folderOut := filepath.Join(projectDir, FolderName(folder.SourcePath))

		for _, class := range []string{ClassKeep, ClassMaybe} {
			srcDir := filepath.Join(folderOut, class)
			destDir := filepath.Join(projectDir, class)

			names, err := s.fsmgr.ListImageFiles(srcDir)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", srcDir, err)
			}

			for _, name := range names {
				finalName := ResolveFilenameConflict(destDir, name)
				src := filepath.Join(srcDir, name)
				dest := filepath.Join(destDir, finalName)

				if err := os.Rename(src, dest); err != nil {
					// Per-file failures are skipped, not fatal; a skipped
					// file is picked up by a re-run.
					s.logger.Warn("migration skipped file", "src", src, "error", err)
					continue
				}
				if finalName != name {
					conflicts = append(conflicts, fmt.Sprintf("%s → %s", name, finalName))
				}
				meta.FileOrigins[finalName] = folder.ID
			}

			// Cleanup is cosmetic; a directory holding non-image leftovers
			// stays behind.
			os.Remove(srcDir)
		}
		os.Remove(folderOut)
	}

	if err := s.metadata.Save(projectDir, meta); err != nil {
		return nil, fmt.Errorf("saving output metadata: %w", err)
	}

	s.logger.Info("migrated to unified layout", "project", p.ID,
		"files", len(meta.FileOrigins), "conflicts", len(conflicts))
	return conflicts, nil
}

// prunedMetadata loads the project's output metadata and drops every entry
// whose file is present in neither unified directory.
func (s *Service) prunedMetadata(projectDir string) (*OutputMetadata, error) {
	prior, err := s.metadata.Load(projectDir)
	if err != nil {
		return nil, fmt.Errorf("loading output metadata: %w", err)
	}

	present := make(map[string]bool)
	for _, class := range []string{ClassKeep, ClassMaybe} {
		names, err := s.fsmgr.ListImageFiles(filepath.Join(projectDir, class))
		if err != nil {
			return nil, fmt.Errorf("reading unified %s directory: %w", class, err)
		}
		for _, name := range names {
			present[name] = true
		}
	}

	meta := NewOutputMetadata()
	for name, folderID := range prior.FileOrigins {
		if present[name] {
			meta.FileOrigins[name] = folderID
		}
	}
	return meta, nil
}

// migrateToPerFolder moves every unified keep/maybe file back under the
// subtree of its origin folder, filename preserved. Files with no
// recoverable origin (metadata entry missing, or the owning folder removed
// from the project) are left in place under the stale unified directories —
// guessing ownership would be worse than leaving the file discoverable.
func (s *Service) migrateToPerFolder(projectDir string, p *Project) ([]string, error) {
	meta, err := s.metadata.Load(projectDir)
	if err != nil {
		return nil, fmt.Errorf("loading output metadata: %w", err)
	}

	for _, class := range []string{ClassKeep, ClassMaybe} {
		srcDir := filepath.Join(projectDir, class)

		names, err := s.fsmgr.ListImageFiles(srcDir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", srcDir, err)
		}

		for _, name := range names {
			folderID, ok := meta.FileOrigins[name]
			if !ok {
				s.logger.Warn("no recorded origin, leaving file in place", "file", name)
				continue
			}
			folder := p.FindFolder(folderID)
			if folder == nil {
				s.logger.Warn("origin folder no longer in project, leaving file in place",
					"file", name, "folder", folderID)
				continue
			}

			destDir := filepath.Join(projectDir, FolderName(folder.SourcePath), class)
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", destDir, err)
			}
			if err := os.Rename(filepath.Join(srcDir, name), filepath.Join(destDir, name)); err != nil {
				s.logger.Warn("migration skipped file", "src", filepath.Join(srcDir, name), "error", err)
			}
		}

		os.Remove(srcDir)
	}

	if err := s.metadata.Delete(projectDir); err != nil {
		s.logger.Warn("removing output metadata", "error", err)
	}

	s.logger.Info("migrated to per-folder layout", "project", p.ID)
	// No renames happen in this direction: each per-folder destination is
	// its own namespace.
	return []string{}, nil
}
