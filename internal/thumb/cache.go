// Package thumb is a content-addressed on-disk cache of downscaled JPEG
// renditions, keyed by a short hash of the source path and the requested
// size. Entries never expire; a cache file, once written, is served as-is.
package thumb

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"toss-go/internal/toss"

	_ "image/gif" // register decoders for thumbnail generation
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultSize is the bounding box edge for thumbnails when the caller does
// not specify one.
const DefaultSize = 150

// KeyPolicy derives the cache key for a source path and size. The key
// becomes the cache filename stem, so it must be filesystem-safe.
type KeyPolicy func(path string, size int) (string, error)

// PathSizeKey is the default policy: hash(path) truncated to 16 hex
// characters plus the size. It never revalidates against the source file —
// a changed image at the same path keeps its stale thumbnail until the
// cache is cleared. This favors instant repeated access within a session.
func PathSizeKey(path string, size int) (string, error) {
	return fmt.Sprintf("%s_%d", toss.HashPath(path), size), nil
}

// ModTimeKey mixes the source file's mtime into the key, so an edited image
// gets a fresh thumbnail at the cost of a stat per lookup. Superseded
// entries linger until the cache directory is cleared.
func ModTimeKey(path string, size int) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat source image: %w", err)
	}
	keyed := fmt.Sprintf("%s|%d", path, info.ModTime().UnixNano())
	return fmt.Sprintf("%s_%d", toss.HashPath(keyed), size), nil
}

// Cache is an on-disk thumbnail cache.
type Cache struct {
	dir    string
	policy KeyPolicy
}

// NewCache creates a cache rooted at dir. A nil policy means PathSizeKey.
func NewCache(dir string, policy KeyPolicy) *Cache {
	if policy == nil {
		policy = PathSizeKey
	}
	return &Cache{dir: dir, policy: policy}
}

// Get returns the JPEG thumbnail bytes for the image at path, fitting within
// size × size while preserving aspect ratio. Size <= 0 means DefaultSize.
// A cache hit returns the stored bytes without touching the source image.
func (c *Cache) Get(path string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}

	key, err := c.policy(path, size)
	if err != nil {
		return nil, err
	}
	cachePath := filepath.Join(c.dir, key+".jpg")

	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	data, err := generate(path, size)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return nil, fmt.Errorf("writing cache entry: %w", err)
	}
	return data, nil
}

// generate decodes the full image, scales it down with a bilinear filter,
// and encodes the result as JPEG.
func generate(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	dst := image.NewRGBA(fitWithin(src.Bounds(), size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, nil); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin returns the largest rectangle with b's aspect ratio that fits
// inside size × size, at least 1px per edge.
func fitWithin(b image.Rectangle, size int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return image.Rect(0, 0, 1, 1)
	}

	var tw, th int
	if w >= h {
		tw = size
		th = h * size / w
	} else {
		th = size
		tw = w * size / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return image.Rect(0, 0, tw, th)
}
