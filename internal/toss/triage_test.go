package toss_test

import (
	"os"
	"path/filepath"
	"testing"

	"toss-go/internal/testutil"
	"toss-go/internal/toss"
)

func TestExecuteTriagePerFolder(t *testing.T) {
	t.Run("move transfers into the folder namespace and removes the source", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		f := e.addFolder(t, projectDir, "vacation")
		src := filepath.Join(f.SourcePath, "a.jpg")
		testutil.WriteFile(t, src, []byte("payload"))

		mustTriage(t, e, projectDir, f.ID, toss.Batch{
			Keep: []string{src}, OutputMode: toss.OutputMove})

		dest := filepath.Join(projectDir, "vacation", "keep", "a.jpg")
		if got := readFile(t, dest); got != "payload" {
			t.Errorf("dest content = %q, want %q", got, "payload")
		}
		if exists(src) {
			t.Error("source still present after move")
		}
		// Per-folder projects carry no output metadata.
		if exists(filepath.Join(projectDir, "toss-metadata.json")) {
			t.Error("metadata file written in per-folder mode")
		}
	})

	t.Run("copy leaves the source in place", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		f := e.addFolder(t, projectDir, "vacation")
		src := filepath.Join(f.SourcePath, "a.jpg")
		testutil.WriteFile(t, src, []byte("payload"))

		mustTriage(t, e, projectDir, f.ID, toss.Batch{
			Maybe: []string{src}, OutputMode: toss.OutputCopy})

		if !exists(src) {
			t.Error("source removed on copy")
		}
		dest := filepath.Join(projectDir, "vacation", "maybe", "a.jpg")
		if got := readFile(t, dest); got != "payload" {
			t.Errorf("dest content = %q, want %q", got, "payload")
		}
	})

	t.Run("same filename from two folders never renames", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		a := e.addFolder(t, projectDir, "alpha")
		b := e.addFolder(t, projectDir, "beta")
		srcA := filepath.Join(a.SourcePath, "img.jpg")
		srcB := filepath.Join(b.SourcePath, "img.jpg")
		testutil.WriteFile(t, srcA, []byte("one"))
		testutil.WriteFile(t, srcB, []byte("two"))

		mustTriage(t, e, projectDir, a.ID, toss.Batch{Keep: []string{srcA}, OutputMode: toss.OutputMove})
		mustTriage(t, e, projectDir, b.ID, toss.Batch{Keep: []string{srcB}, OutputMode: toss.OutputMove})

		if got := readFile(t, filepath.Join(projectDir, "alpha", "keep", "img.jpg")); got != "one" {
			t.Errorf("alpha copy = %q, want %q", got, "one")
		}
		if got := readFile(t, filepath.Join(projectDir, "beta", "keep", "img.jpg")); got != "two" {
			t.Errorf("beta copy = %q, want %q", got, "two")
		}
	})
}

func TestExecuteTriageUnified(t *testing.T) {
	t.Run("conflicting names are suffixed and provenance recorded", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		a := e.addFolder(t, projectDir, "alpha")
		b := e.addFolder(t, projectDir, "beta")
		e.setMode(t, projectDir, toss.ModeUnified)
		srcA := filepath.Join(a.SourcePath, "img.jpg")
		srcB := filepath.Join(b.SourcePath, "img.jpg")
		testutil.WriteFile(t, srcA, []byte("one"))
		testutil.WriteFile(t, srcB, []byte("two"))

		mustTriage(t, e, projectDir, a.ID, toss.Batch{Keep: []string{srcA}, OutputMode: toss.OutputMove})
		mustTriage(t, e, projectDir, b.ID, toss.Batch{Keep: []string{srcB}, OutputMode: toss.OutputMove})

		if got := readFile(t, filepath.Join(projectDir, "keep", "img.jpg")); got != "one" {
			t.Errorf("img.jpg = %q, want %q", got, "one")
		}
		if got := readFile(t, filepath.Join(projectDir, "keep", "img_1.jpg")); got != "two" {
			t.Errorf("img_1.jpg = %q, want %q", got, "two")
		}

		origins := loadMetadata(t, projectDir)
		if origins["img.jpg"] != a.ID || origins["img_1.jpg"] != b.ID {
			t.Errorf("file_origins = %v, want img.jpg→%s img_1.jpg→%s", origins, a.ID, b.ID)
		}
	})

	t.Run("keep and maybe directories are separate namespaces", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		f := e.addFolder(t, projectDir, "alpha")
		e.setMode(t, projectDir, toss.ModeUnified)
		src1 := filepath.Join(f.SourcePath, "x.jpg")
		src2 := filepath.Join(f.SourcePath, "sub")
		testutil.WriteFile(t, src1, []byte("k"))
		testutil.WriteFile(t, filepath.Join(src2, "x.jpg"), []byte("m"))

		mustTriage(t, e, projectDir, f.ID, toss.Batch{
			Keep:       []string{src1},
			Maybe:      []string{filepath.Join(src2, "x.jpg")},
			OutputMode: toss.OutputMove,
		})

		if !exists(filepath.Join(projectDir, "keep", "x.jpg")) ||
			!exists(filepath.Join(projectDir, "maybe", "x.jpg")) {
			t.Error("same name should land unsuffixed in both keep and maybe")
		}
	})
}

func TestExecuteTriageDiscards(t *testing.T) {
	t.Run("discards are trashed even in copy mode", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		f := e.addFolder(t, projectDir, "vacation")
		src := filepath.Join(f.SourcePath, "bad.jpg")
		testutil.WriteFile(t, src, []byte("x"))

		mustTriage(t, e, projectDir, f.ID, toss.Batch{
			Discard: []string{src}, OutputMode: toss.OutputCopy})

		if exists(src) {
			t.Error("discarded file still present")
		}
		if len(e.trasher.Trashed) != 1 || e.trasher.Trashed[0] != src {
			t.Errorf("trasher saw %v, want [%s]", e.trasher.Trashed, src)
		}
	})

	t.Run("all discards are attempted and the first error returned", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		f := e.addFolder(t, projectDir, "vacation")
		src1 := filepath.Join(f.SourcePath, "one.jpg")
		src2 := filepath.Join(f.SourcePath, "two.jpg")
		testutil.WriteFile(t, src2, []byte("2"))
		// src1 never exists, so the fake trasher fails on it.

		err := e.svc.ExecuteTriage(projectDir, f.ID, toss.Batch{
			Discard: []string{src1, src2}, OutputMode: toss.OutputMove})
		assertContains(t, err, "trashing")
		if exists(src2) {
			t.Error("second discard was not attempted after the first failed")
		}
	})
}

func TestExecuteTriageFailure(t *testing.T) {
	t.Run("first transfer failure aborts the remainder but keeps commits", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		f := e.addFolder(t, projectDir, "vacation")
		e.setMode(t, projectDir, toss.ModeUnified)
		good := filepath.Join(f.SourcePath, "good.jpg")
		missing := filepath.Join(f.SourcePath, "missing.jpg")
		later := filepath.Join(f.SourcePath, "later.jpg")
		testutil.WriteFile(t, good, []byte("g"))
		testutil.WriteFile(t, later, []byte("l"))

		err := e.svc.ExecuteTriage(projectDir, f.ID, toss.Batch{
			Keep: []string{good, missing, later}, OutputMode: toss.OutputMove})
		assertContains(t, err, "missing.jpg")

		if !exists(filepath.Join(projectDir, "keep", "good.jpg")) {
			t.Error("file committed before the failure was lost")
		}
		if exists(filepath.Join(projectDir, "keep", "later.jpg")) {
			t.Error("transfer continued past the failure")
		}
		// Provenance for the committed file survives the aborted batch.
		if origins := loadMetadata(t, projectDir); origins["good.jpg"] != f.ID {
			t.Errorf("file_origins = %v, want good.jpg→%s", origins, f.ID)
		}
	})

	t.Run("unknown folder is rejected", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		err := e.svc.ExecuteTriage(projectDir, "nope", toss.Batch{OutputMode: toss.OutputMove})
		assertContains(t, err, "not found")
	})

	t.Run("invalid output mode is rejected before touching disk", func(t *testing.T) {
		e := newEnv(t)
		projectDir, _ := e.createProject(t, "p")
		f := e.addFolder(t, projectDir, "vacation")
		err := e.svc.ExecuteTriage(projectDir, f.ID, toss.Batch{OutputMode: "teleport"})
		assertContains(t, err, "unknown output mode")
		if _, statErr := os.Stat(filepath.Join(projectDir, "vacation")); statErr == nil {
			t.Error("output directories created despite invalid mode")
		}
	})
}
