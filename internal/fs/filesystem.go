// Package fs implements the real-filesystem side of the engine: image
// scanning, move/copy transfers, and the platform trash.
package fs

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"toss-go/internal/toss"

	_ "image/gif" // register decoders for dimension probing
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// imageExts contains the supported image file extensions (lowercase, with dot).
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
}

// IsImageFile reports whether the path has a supported image extension.
func IsImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// OSFilesystemManager is the real filesystem implementation of
// toss.FilesystemManager.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a filesystem manager operating on the real
// filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// ScanImages returns full info for every image file directly inside dir,
// sorted case-insensitively by name. A missing directory yields an empty
// slice. Entries that cannot be statted are skipped; losing one bad entry is
// better than losing the whole listing.
func (m *OSFilesystemManager) ScanImages(dir string) ([]toss.ImageInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []toss.ImageInfo{}, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	images := []toss.ImageInfo{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsImageFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		img := toss.ImageInfo{
			ID:   toss.HashPath(path),
			Path: path,
			Name: entry.Name(),
			Size: info.Size(),
		}
		if w, h, ok := imageDimensions(path); ok {
			img.Width = &w
			img.Height = &h
		}
		if t, ok := exifTakenAt(path); ok {
			img.TakenAt = &t
		}
		images = append(images, img)
	}

	sort.Slice(images, func(i, j int) bool {
		return strings.ToLower(images[i].Name) < strings.ToLower(images[j].Name)
	})
	return images, nil
}

// ListImageFiles returns just the names of image files directly inside dir.
// A missing directory yields an empty slice.
func (m *OSFilesystemManager) ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.Type().IsRegular() && IsImageFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CountImages returns the number of image files directly inside dir, zero
// for a missing or unreadable directory.
func (m *OSFilesystemManager) CountImages(dir string) int {
	names, err := m.ListImageFiles(dir)
	if err != nil {
		return 0
	}
	return len(names)
}

// Transfer moves or copies src to dest. A move uses rename semantics and
// fails if source and destination are on different volumes; it is never
// silently converted to a copy. A copy leaves the source in place and
// preserves its permission bits.
func (m *OSFilesystemManager) Transfer(src, dest string, mode toss.OutputMode) error {
	switch mode {
	case toss.OutputMove:
		if err := os.Rename(src, dest); err != nil {
			return fmt.Errorf("failed to move %s: %w", src, err)
		}
		return nil
	case toss.OutputCopy:
		if err := copyFile(src, dest); err != nil {
			return fmt.Errorf("failed to copy %s: %w", src, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output mode: %s", mode)
	}
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

// imageDimensions probes the header of an image file for its pixel size.
func imageDimensions(path string) (width, height int, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// exifTakenAt extracts the EXIF capture time from a JPEG, when present.
func exifTakenAt(path string) (time.Time, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpg" && ext != ".jpeg" {
		return time.Time{}, false
	}

	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}
	tm, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}

// Compile-time check that OSFilesystemManager implements toss.FilesystemManager.
var _ toss.FilesystemManager = (*OSFilesystemManager)(nil)
