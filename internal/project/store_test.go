package project

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"toss-go/internal/toss"
)

func testProject() *toss.Project {
	return &toss.Project{
		ID:                  "proj-1",
		Name:                "vacation",
		CreatedAt:           time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		OutputDirectoryMode: toss.ModeUnified,
		Folders: []toss.Folder{
			{ID: "f-1", SourcePath: "/photos/day1", OutputMode: toss.OutputMove,
				AddedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore()
	want := testProject()

	if err := store.Save(dir, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.ID != want.ID || got.Name != want.Name {
		t.Errorf("identity = %s/%s, want %s/%s", got.ID, got.Name, want.ID, want.Name)
	}
	if got.OutputDirectoryMode != toss.ModeUnified {
		t.Errorf("mode = %q, want unified", got.OutputDirectoryMode)
	}
	if len(got.Folders) != 1 || got.Folders[0].SourcePath != "/photos/day1" {
		t.Errorf("folders = %+v", got.Folders)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := NewStore().Load(dir)
	if err == nil || !strings.Contains(err.Error(), "project config not found") {
		t.Fatalf("Load() error = %v, want not-found message", err)
	}
}

func TestStoreReadDefaultsMode(t *testing.T) {
	// Configs written before layout modes existed carry no
	// output_directory_mode; they must read back as per-folder.
	raw := `{"id":"old","name":"legacy","created_at":"2023-01-01T00:00:00Z"}`
	p, err := NewStore().Read(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if p.OutputDirectoryMode != toss.ModePerFolder {
		t.Errorf("mode = %q, want per-folder default", p.OutputDirectoryMode)
	}
	if p.Folders == nil {
		t.Error("Folders should decode to an empty slice, not nil")
	}
}

func TestStoreWriteIsIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := NewStore().Write(&buf, testProject()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Error("config should be pretty-printed")
	}
}

func TestMetadataStore(t *testing.T) {
	t.Run("absent file reads as empty metadata", func(t *testing.T) {
		m, err := NewMetadataStore().Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if m.FileOrigins == nil || len(m.FileOrigins) != 0 {
			t.Errorf("FileOrigins = %v, want empty map", m.FileOrigins)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		store := NewMetadataStore()
		m := toss.NewOutputMetadata()
		m.FileOrigins["img.jpg"] = "f-1"

		if err := store.Save(dir, m); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := store.Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.FileOrigins["img.jpg"] != "f-1" {
			t.Errorf("FileOrigins = %v", got.FileOrigins)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		dir := t.TempDir()
		store := NewMetadataStore()
		if err := store.Save(dir, toss.NewOutputMetadata()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Delete(dir); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := store.Delete(dir); err != nil {
			t.Fatalf("second Delete() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, toss.OutputMetadataFile)); !os.IsNotExist(err) {
			t.Error("metadata file still present")
		}
	})
}

func TestFileRegistry(t *testing.T) {
	newRegistry := func(t *testing.T) *FileRegistry {
		t.Helper()
		return NewFileRegistry(filepath.Join(t.TempDir(), "nested", "projects.json"))
	}
	entry := func(id string) toss.RegistryEntry {
		return toss.RegistryEntry{ID: id, Name: "p-" + id, Path: "/projects/" + id}
	}

	t.Run("missing file lists empty", func(t *testing.T) {
		entries, err := newRegistry(t).List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("entries = %v, want none", entries)
		}
	})

	t.Run("append and remove", func(t *testing.T) {
		r := newRegistry(t)
		if err := r.Append(entry("a")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := r.Append(entry("b")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := r.Remove("a"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}

		entries, err := r.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "b" {
			t.Errorf("entries = %v, want only b", entries)
		}
	})

	t.Run("removing an unknown id is a no-op", func(t *testing.T) {
		r := newRegistry(t)
		if err := r.Append(entry("a")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := r.Remove("ghost"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		entries, _ := r.List()
		if len(entries) != 1 {
			t.Errorf("entries = %v, want a untouched", entries)
		}
	})
}
