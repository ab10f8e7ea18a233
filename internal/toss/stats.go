package toss

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FolderStats returns image counts for one folder: how many images remain at
// the source and how many have been sorted into its keep/maybe subtrees.
func (s *Service) FolderStats(projectDir, folderID string) (*FolderStats, error) {
	p, err := s.projects.Load(projectDir)
	if err != nil {
		return nil, err
	}
	folder := p.FindFolder(folderID)
	if folder == nil {
		return nil, fmt.Errorf("folder %s not found in project", folderID)
	}

	name := FolderName(folder.SourcePath)
	outputDir := filepath.Join(projectDir, name)

	return &FolderStats{
		FolderID:    folderID,
		FolderName:  name,
		SourceCount: s.fsmgr.CountImages(folder.SourcePath),
		KeepCount:   s.fsmgr.CountImages(filepath.Join(outputDir, ClassKeep)),
		MaybeCount:  s.fsmgr.CountImages(filepath.Join(outputDir, ClassMaybe)),
	}, nil
}

// ProjectStats aggregates keep/maybe counts for the whole project. Under
// unified mode the totals come from the shared directories and per-folder
// keep/maybe counts are zero (unattributable without scanning the metadata).
func (s *Service) ProjectStats(projectDir string) (*ProjectStats, error) {
	p, err := s.projects.Load(projectDir)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStats{FolderStats: []FolderStats{}}

	if p.OutputDirectoryMode == ModeUnified {
		stats.TotalKeep = s.fsmgr.CountImages(filepath.Join(projectDir, ClassKeep))
		stats.TotalMaybe = s.fsmgr.CountImages(filepath.Join(projectDir, ClassMaybe))

		for _, folder := range p.Folders {
			stats.FolderStats = append(stats.FolderStats, FolderStats{
				FolderID:    folder.ID,
				FolderName:  FolderName(folder.SourcePath),
				SourceCount: s.fsmgr.CountImages(folder.SourcePath),
			})
		}
		return stats, nil
	}

	for _, folder := range p.Folders {
		fs, err := s.FolderStats(projectDir, folder.ID)
		if err != nil {
			return nil, err
		}
		stats.TotalKeep += fs.KeepCount
		stats.TotalMaybe += fs.MaybeCount
		stats.FolderStats = append(stats.FolderStats, *fs)
	}
	return stats, nil
}

// ListImages returns the images directly inside a directory, sorted
// case-insensitively by name.
func (s *Service) ListImages(dir string) ([]ImageInfo, error) {
	return s.fsmgr.ScanImages(dir)
}

// ListOutputImages returns every image sorted into the given classification
// ("keep" or "maybe"), each with the id of the source folder it came from.
// Under unified mode provenance comes from the output metadata; an image
// with no metadata entry has an empty SourceFolderID.
func (s *Service) ListOutputImages(projectDir, classification string) ([]OutputImage, error) {
	if classification != ClassKeep && classification != ClassMaybe {
		return nil, fmt.Errorf("unknown classification: %s", classification)
	}

	p, err := s.projects.Load(projectDir)
	if err != nil {
		return nil, err
	}

	images := []OutputImage{}

	if p.OutputDirectoryMode == ModeUnified {
		infos, err := s.fsmgr.ScanImages(filepath.Join(projectDir, classification))
		if err != nil {
			return nil, err
		}
		meta, err := s.metadata.Load(projectDir)
		if err != nil {
			return nil, fmt.Errorf("loading output metadata: %w", err)
		}
		for _, info := range infos {
			images = append(images, OutputImage{
				ImageInfo:      info,
				SourceFolderID: meta.FileOrigins[info.Name],
			})
		}
	} else {
		for _, folder := range p.Folders {
			dir := filepath.Join(projectDir, FolderName(folder.SourcePath), classification)
			infos, err := s.fsmgr.ScanImages(dir)
			if err != nil {
				return nil, err
			}
			for _, info := range infos {
				images = append(images, OutputImage{
					ImageInfo:      info,
					SourceFolderID: folder.ID,
				})
			}
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return strings.ToLower(images[i].Name) < strings.ToLower(images[j].Name)
	})
	return images, nil
}
