package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManifestResolve(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	video := mustWrite("DJI_0042.MP4")
	srtFile := mustWrite("DJI_0042.srt")
	mustWrite("notes.txt")

	photoDir := filepath.Join(dir, "photos")
	if err := os.Mkdir(photoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	photo := filepath.Join(photoDir, "shot.jpg")
	if err := os.WriteFile(photo, []byte("x"), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(photoDir, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write readme: %v", err)
	}

	manifest := &flightManifest{
		Files: []string{"DJI_0042.MP4", "DJI_0042.srt"},
		Dirs:  []string{"photos"},
	}
	paths, err := manifest.resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %v", paths)
	}
	want := map[string]bool{video: true, srtFile: true, photo: true}
	for _, path := range paths {
		if !want[path] {
			t.Fatalf("unexpected path %s in %v", path, paths)
		}
	}
}

func TestManifestResolveMissingFile(t *testing.T) {
	manifest := &flightManifest{Files: []string{"missing.jpg"}}
	if _, err := manifest.resolve(t.TempDir()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flight.yaml")
	raw := "name: morning survey\nfiles:\n  - a.jpg\ndirs:\n  - photos\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	manifest, err := loadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if manifest.Name != "morning survey" {
		t.Fatalf("unexpected name %q", manifest.Name)
	}
	if len(manifest.Files) != 1 || len(manifest.Dirs) != 1 {
		t.Fatalf("unexpected manifest %+v", manifest)
	}

	if _, err := loadManifest(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
