package toss

import (
	"fmt"
	"os"
	"path/filepath"
)

// Classification names double as output directory names.
const (
	ClassKeep  = "keep"
	ClassMaybe = "maybe"
)

// ExecuteTriage commits a classification batch for one folder of a project.
//
// Keep files are fully processed before maybe files. Under unified mode each
// filename is conflict-resolved against the shared destination and recorded
// in the output metadata; under per-folder mode the original name is always
// preserved. Discards are sent to the trash regardless of the batch's
// transfer mode.
//
// The call is not transactional: the first transfer failure aborts the
// remaining transfers, but every file committed before it stays committed
// (and its metadata entry is persisted). The caller re-runs with the
// unprocessed remainder after inspecting the error.
func (s *Service) ExecuteTriage(projectDir, folderID string, batch Batch) error {
	if !batch.OutputMode.Valid() {
		return fmt.Errorf("unknown output mode: %s", batch.OutputMode)
	}

	unlock := s.lockProject(projectDir)
	defer unlock()

	p, err := s.projects.Load(projectDir)
	if err != nil {
		return err
	}
	folder := p.FindFolder(folderID)
	if folder == nil {
		return fmt.Errorf("folder %s not found in project", folderID)
	}

	unified := p.OutputDirectoryMode == ModeUnified
	keepDir, maybeDir := s.outputDirs(projectDir, p, folder)

	if err := os.MkdirAll(keepDir, 0755); err != nil {
		return fmt.Errorf("creating keep directory: %w", err)
	}
	if err := os.MkdirAll(maybeDir, 0755); err != nil {
		return fmt.Errorf("creating maybe directory: %w", err)
	}

	meta := NewOutputMetadata()
	if unified {
		meta, err = s.metadata.Load(projectDir)
		if err != nil {
			return fmt.Errorf("loading output metadata: %w", err)
		}
	}

	written := 0
	transfer := func(paths []string, destDir string) error {
		for _, src := range paths {
			name := filepath.Base(src)
			finalName := name
			if unified {
				finalName = ResolveFilenameConflict(destDir, name)
			}
			dest := filepath.Join(destDir, finalName)

			if err := s.fsmgr.Transfer(src, dest, batch.OutputMode); err != nil {
				return fmt.Errorf("transferring %s: %w", src, err)
			}

			if unified {
				meta.FileOrigins[finalName] = folderID
			}
			written++
			s.logger.Debug("file sorted", "src", src, "dest", dest)
		}
		return nil
	}

	transferErr := transfer(batch.Keep, keepDir)
	if transferErr == nil {
		transferErr = transfer(batch.Maybe, maybeDir)
	}

	// Files committed before a failure stay committed; their provenance must
	// be on disk before the error is surfaced.
	if unified && written > 0 {
		if err := s.metadata.Save(projectDir, meta); err != nil {
			if transferErr == nil {
				return fmt.Errorf("saving output metadata: %w", err)
			}
			s.logger.Error("saving output metadata after transfer failure", "error", err)
		}
	}
	if transferErr != nil {
		return transferErr
	}

	var firstErr error
	for _, src := range batch.Discard {
		if err := s.trasher.Trash(src); err != nil {
			s.logger.Error("trash failed", "path", src, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("trashing %s: %w", src, err)
			}
		}
	}

	s.logger.Info("triage executed", "project", p.ID, "folder", folderID,
		"keep", len(batch.Keep), "maybe", len(batch.Maybe), "discard", len(batch.Discard))
	return firstErr
}

// outputDirs resolves the keep and maybe destination directories for a
// folder under the project's current output directory mode.
func (s *Service) outputDirs(projectDir string, p *Project, folder *Folder) (keepDir, maybeDir string) {
	if p.OutputDirectoryMode == ModeUnified {
		return filepath.Join(projectDir, ClassKeep), filepath.Join(projectDir, ClassMaybe)
	}
	base := filepath.Join(projectDir, FolderName(folder.SourcePath))
	return filepath.Join(base, ClassKeep), filepath.Join(base, ClassMaybe)
}
