package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestManagerRoundTrip(t *testing.T) {
	m := &Manager{}
	want := NewConfig("/data/toss", "/cache/toss")
	want.ThumbnailSize = 200

	var buf bytes.Buffer
	if err := m.Write(&buf, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.DataDir != want.DataDir || got.CacheDir != want.CacheDir {
		t.Errorf("dirs = %s/%s, want %s/%s", got.DataDir, got.CacheDir, want.DataDir, want.CacheDir)
	}
	if got.LogDir != filepath.Join("/data/toss", "log") {
		t.Errorf("LogDir = %s", got.LogDir)
	}
	if got.ThumbnailSize != 200 {
		t.Errorf("ThumbnailSize = %d, want 200", got.ThumbnailSize)
	}
	if got.Database.Type != "sqlite" || got.Database.DataDir != "/data/toss" {
		t.Errorf("Database = %+v", got.Database)
	}
}

func TestReadPartialConfig(t *testing.T) {
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(`data_dir = "/srv/toss"`))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.DataDir != "/srv/toss" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.ThumbnailSize != 0 {
		t.Errorf("ThumbnailSize = %d, want unset", cfg.ThumbnailSize)
	}
}

func TestReadInvalidConfig(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("data_dir = [")); err == nil {
		t.Fatal("Read() expected decode error")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates the file with parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "toss.toml")
		if err := Init(path, NewConfig("/data", "/cache")); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		cfg, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if cfg.DataDir != "/data" {
			t.Errorf("DataDir = %s", cfg.DataDir)
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "toss.toml")
		if err := Init(path, NewConfig("/data", "/cache")); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, NewConfig("/other", "/cache")); err == nil {
			t.Fatal("second Init() expected error")
		}
	})

	t.Run("missing file read errors", func(t *testing.T) {
		if _, err := ReadFromFile(filepath.Join(t.TempDir(), "none.toml")); err == nil {
			t.Fatal("ReadFromFile() expected error")
		}
	})
}
