package fs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"toss-go/internal/toss"
)

// XDGTrasher sends files to the freedesktop.org trash can
// ($XDG_DATA_HOME/Trash, falling back to ~/.local/share/Trash): the file is
// renamed into Trash/files and a .trashinfo record with the original path
// and deletion date is written to Trash/info, so desktop environments can
// list and restore it.
//
// Discard is always a move to the trash, never a permanent deletion.
type XDGTrasher struct {
	root string // trash directory; empty means resolve the XDG default
}

// NewXDGTrasher creates a trasher rooted at the given trash directory.
// Pass "" to use the platform default.
func NewXDGTrasher(root string) *XDGTrasher {
	return &XDGTrasher{root: root}
}

// Trash moves the file (or directory) at path into the trash can.
func (t *XDGTrasher) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return fmt.Errorf("stat path: %w", err)
	}

	root, err := t.trashRoot()
	if err != nil {
		return err
	}
	filesDir := filepath.Join(root, "files")
	infoDir := filepath.Join(root, "info")
	if err := os.MkdirAll(filesDir, 0700); err != nil {
		return fmt.Errorf("creating trash files directory: %w", err)
	}
	if err := os.MkdirAll(infoDir, 0700); err != nil {
		return fmt.Errorf("creating trash info directory: %w", err)
	}

	name := toss.ResolveFilenameConflict(filesDir, filepath.Base(abs))

	// The info record is written first, exclusively: its existence reserves
	// the name inside the trash can.
	infoPath := filepath.Join(infoDir, name+".trashinfo")
	info, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating trash info record: %w", err)
	}
	_, err = fmt.Fprintf(info, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapeTrashPath(abs), time.Now().Format("2006-01-02T15:04:05"))
	if cerr := info.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(infoPath)
		return fmt.Errorf("writing trash info record: %w", err)
	}

	if err := t.moveIntoTrash(abs, filepath.Join(filesDir, name)); err != nil {
		os.Remove(infoPath)
		return err
	}
	return nil
}

// moveIntoTrash renames src into the trash, falling back to copy-and-remove
// for regular files when the trash lives on a different volume.
func (t *XDGTrasher) moveIntoTrash(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	info, statErr := os.Lstat(src)
	if statErr != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("failed to trash %s: %w", src, err)
	}
	if cpErr := copyFile(src, dest); cpErr != nil {
		return fmt.Errorf("failed to trash %s: %w", src, cpErr)
	}
	if rmErr := os.Remove(src); rmErr != nil {
		return fmt.Errorf("removing %s after trashing a copy: %w", src, rmErr)
	}
	return nil
}

func (t *XDGTrasher) trashRoot() (string, error) {
	if t.root != "" {
		return t.root, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// escapeTrashPath percent-encodes a path the way the trash spec expects:
// per segment, slashes preserved.
func escapeTrashPath(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// Compile-time check that XDGTrasher implements toss.Trasher.
var _ toss.Trasher = (*XDGTrasher)(nil)
