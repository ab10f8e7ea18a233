package toss

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// SanitizeName strips filesystem-hostile characters from a user-supplied name
// and trims surrounding whitespace. The result may be empty, which callers
// must treat as invalid input.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// HashPath derives a stable short identifier from an arbitrary path: the
// first 16 hex characters of its SHA-256. Used for thumbnail cache keys and
// list-item ids.
func HashPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:16]
}

// FolderName returns the display/output name for a source folder: the
// basename of its path. Two folders with the same basename share the same
// per-folder output subtree; AddFolder warns about this instead of
// preventing it, since the layout is an on-disk contract.
func FolderName(sourcePath string) string {
	name := filepath.Base(sourcePath)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "unnamed"
	}
	return name
}
