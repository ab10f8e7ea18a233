package toss

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxConflictProbes bounds the rename search. Past the ceiling the last
// candidate is returned without a further uniqueness guarantee.
const maxConflictProbes = 1000

// ResolveFilenameConflict picks a filename for originalName in destDir.
// If no file of that name exists there, originalName is returned unchanged.
// Otherwise stem_1, stem_2, ... are probed (extension preserved) until a free
// name is found.
//
// The probe-then-write sequence is not atomic; callers serialize all
// output-mutating work per project directory.
func ResolveFilenameConflict(destDir, originalName string) string {
	if !fileExists(filepath.Join(destDir, originalName)) {
		return originalName
	}

	ext := filepath.Ext(originalName)
	stem := strings.TrimSuffix(originalName, ext)

	name := originalName
	for n := 1; n <= maxConflictProbes; n++ {
		name = fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !fileExists(filepath.Join(destDir, name)) {
			return name
		}
	}
	return name
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
