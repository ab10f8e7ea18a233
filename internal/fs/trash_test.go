package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toss-go/internal/testutil"
)

func TestTrash(t *testing.T) {
	t.Run("moves the file and writes an info record", func(t *testing.T) {
		root := t.TempDir()
		trasher := NewXDGTrasher(root)
		src := filepath.Join(t.TempDir(), "photo one.jpg")
		testutil.WriteFile(t, src, []byte("pixels"))

		if err := trasher.Trash(src); err != nil {
			t.Fatalf("Trash() error = %v", err)
		}

		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Error("source still present after trashing")
		}
		data, err := os.ReadFile(filepath.Join(root, "files", "photo one.jpg"))
		if err != nil || string(data) != "pixels" {
			t.Errorf("trashed file = %q, %v", data, err)
		}

		info, err := os.ReadFile(filepath.Join(root, "info", "photo one.jpg.trashinfo"))
		if err != nil {
			t.Fatalf("reading info record: %v", err)
		}
		text := string(info)
		if !strings.HasPrefix(text, "[Trash Info]\n") {
			t.Errorf("info record missing header: %q", text)
		}
		// Spaces are percent-encoded per segment.
		if !strings.Contains(text, "photo%20one.jpg") {
			t.Errorf("info record path not escaped: %q", text)
		}
		if !strings.Contains(text, "DeletionDate=") {
			t.Errorf("info record missing deletion date: %q", text)
		}
	})

	t.Run("same basename gets a suffixed slot", func(t *testing.T) {
		root := t.TempDir()
		trasher := NewXDGTrasher(root)

		for i, content := range []string{"first", "second"} {
			src := filepath.Join(t.TempDir(), "dup.jpg")
			testutil.WriteFile(t, src, []byte(content))
			if err := trasher.Trash(src); err != nil {
				t.Fatalf("Trash() #%d error = %v", i+1, err)
			}
		}

		if data, _ := os.ReadFile(filepath.Join(root, "files", "dup.jpg")); string(data) != "first" {
			t.Errorf("dup.jpg = %q, want first", data)
		}
		if data, _ := os.ReadFile(filepath.Join(root, "files", "dup_1.jpg")); string(data) != "second" {
			t.Errorf("dup_1.jpg = %q, want second", data)
		}
		if _, err := os.Stat(filepath.Join(root, "info", "dup_1.jpg.trashinfo")); err != nil {
			t.Error("info record for suffixed slot missing")
		}
	})

	t.Run("trashes directories whole", func(t *testing.T) {
		root := t.TempDir()
		trasher := NewXDGTrasher(root)
		dir := filepath.Join(t.TempDir(), "burst")
		testutil.WriteFile(t, filepath.Join(dir, "a.jpg"), []byte("a"))

		if err := trasher.Trash(dir); err != nil {
			t.Fatalf("Trash() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "files", "burst", "a.jpg")); err != nil {
			t.Errorf("directory contents not in trash: %v", err)
		}
	})

	t.Run("missing path errors", func(t *testing.T) {
		trasher := NewXDGTrasher(t.TempDir())
		if err := trasher.Trash(filepath.Join(t.TempDir(), "ghost.jpg")); err == nil {
			t.Fatal("Trash() expected error for missing path")
		}
	})
}
