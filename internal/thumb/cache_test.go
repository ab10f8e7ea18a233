package thumb

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"toss-go/internal/testutil"
	"toss-go/internal/toss"
)

func TestCacheGet(t *testing.T) {
	t.Run("generates, stores, and replays the same bytes", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(t.TempDir(), "photo.png")
		testutil.WritePNG(t, src, 300, 300)
		cache := NewCache(dir, nil)

		first, err := cache.Get(src, 150)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		entry := filepath.Join(dir, fmt.Sprintf("%s_150.jpg", toss.HashPath(src)))
		if _, err := os.Stat(entry); err != nil {
			t.Fatalf("cache entry not written: %v", err)
		}

		// Remove the source; a hit must not need it.
		if err := os.Remove(src); err != nil {
			t.Fatal(err)
		}
		second, err := cache.Get(src, 150)
		if err != nil {
			t.Fatalf("cached Get() error = %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("cache hit returned different bytes")
		}
	})

	t.Run("fits within the bounding box preserving aspect ratio", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "wide.png")
		testutil.WritePNG(t, src, 100, 50)
		cache := NewCache(t.TempDir(), nil)

		data, err := cache.Get(src, 150)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decoding thumbnail: %v", err)
		}
		if cfg.Width != 150 || cfg.Height != 75 {
			t.Errorf("thumbnail = %dx%d, want 150x75", cfg.Width, cfg.Height)
		}
	})

	t.Run("size zero falls back to the default", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(t.TempDir(), "p.png")
		testutil.WritePNG(t, src, 10, 10)

		if _, err := NewCache(dir, nil).Get(src, 0); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		entry := fmt.Sprintf("%s_%d.jpg", toss.HashPath(src), DefaultSize)
		if _, err := os.Stat(filepath.Join(dir, entry)); err != nil {
			t.Errorf("default-size entry missing: %v", err)
		}
	})

	t.Run("distinct sizes are distinct entries", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(t.TempDir(), "p.png")
		testutil.WritePNG(t, src, 40, 40)
		cache := NewCache(dir, nil)

		for _, size := range []int{100, 200} {
			if _, err := cache.Get(src, size); err != nil {
				t.Fatalf("Get(%d) error = %v", size, err)
			}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 {
			t.Errorf("cache holds %d entries, want 2", len(entries))
		}
	})

	t.Run("undecodable source errors", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "broken.png")
		testutil.WriteFile(t, src, []byte("not an image"))
		if _, err := NewCache(t.TempDir(), nil).Get(src, 150); err == nil {
			t.Fatal("Get() expected decode error")
		}
	})
}

func TestModTimeKey(t *testing.T) {
	src := filepath.Join(t.TempDir(), "p.png")
	testutil.WritePNG(t, src, 10, 10)

	k1, err := ModTimeKey(src, 150)
	if err != nil {
		t.Fatalf("ModTimeKey() error = %v", err)
	}
	k2, err := ModTimeKey(src, 150)
	if err != nil {
		t.Fatalf("ModTimeKey() error = %v", err)
	}
	if k1 != k2 {
		t.Error("key changed without the file changing")
	}

	past := time.Unix(1600000000, 0)
	if err := os.Chtimes(src, past, past); err != nil {
		t.Fatal(err)
	}
	k3, err := ModTimeKey(src, 150)
	if err != nil {
		t.Fatalf("ModTimeKey() error = %v", err)
	}
	if k3 == k1 {
		t.Error("key did not change with the file's mtime")
	}

	if _, err := ModTimeKey(filepath.Join(t.TempDir(), "ghost.png"), 150); err == nil {
		t.Fatal("ModTimeKey() expected error for missing source")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h, size   int
		wantW, wantH int
	}{
		{"landscape", 100, 50, 150, 150, 75},
		{"portrait", 50, 100, 150, 75, 150},
		{"square", 80, 80, 150, 150, 150},
		{"extreme ratio clamps to 1px", 10000, 1, 150, 150, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fitWithin(image.Rect(0, 0, tt.w, tt.h), tt.size)
			if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("fitWithin(%dx%d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.size, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}
