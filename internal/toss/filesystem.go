package toss

// FilesystemManager abstracts the filesystem operations the service needs.
// Implementations operate on the real filesystem; the interface exists so
// transfer and scan behavior can be substituted in tests.
type FilesystemManager interface {
	// ScanImages returns full info for every image file directly inside dir,
	// sorted case-insensitively by name. A missing directory yields an empty
	// slice, not an error. Unreadable individual entries are skipped.
	ScanImages(dir string) ([]ImageInfo, error)

	// ListImageFiles returns just the names of image files directly inside
	// dir. A missing directory yields an empty slice.
	ListImageFiles(dir string) ([]string, error)

	// CountImages returns the number of image files directly inside dir,
	// zero for a missing or unreadable directory.
	CountImages(dir string) int

	// Transfer moves or copies src to dest. A move uses rename semantics: a
	// cross-volume rename surfaces as an error, it is not converted to a
	// copy. A copy leaves the source in place.
	Transfer(src, dest string, mode OutputMode) error
}

// Trasher sends files to the platform trash (not permanent deletion).
type Trasher interface {
	Trash(path string) error
}
