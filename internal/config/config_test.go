package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.Upload.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Fatalf("expected default upload limit, got %d", cfg.Upload.MaxUploadBytes)
	}
	if cfg.Map.CenterLat != DefaultCenterLat || cfg.Map.CenterLon != DefaultCenterLon {
		t.Fatalf("unexpected default map center: %+v", cfg.Map)
	}
	if cfg.Map.DefaultZoom != DefaultZoom {
		t.Fatalf("expected default zoom %d, got %d", DefaultZoom, cfg.Map.DefaultZoom)
	}
}

func TestLoadFromFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := `
api_url = "http://127.0.0.1:9999"
data_dir = "/tmp/dm-test"
log_level = "debug"

[upload]
max_upload_bytes = 1048576

[map]
center_lat = 48.8584
center_lon = 2.2945
default_zoom = 10
`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigName), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configDirEnvKey, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9999" {
		t.Fatalf("expected file api_url, got %q", cfg.APIURL)
	}
	if cfg.DataDir != "/tmp/dm-test" {
		t.Fatalf("expected file data_dir, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected file log_level, got %q", cfg.LogLevel)
	}
	if cfg.Upload.MaxUploadBytes != 1048576 {
		t.Fatalf("expected file upload limit, got %d", cfg.Upload.MaxUploadBytes)
	}
	if cfg.Map.CenterLat != 48.8584 || cfg.Map.DefaultZoom != 10 {
		t.Fatalf("unexpected map config: %+v", cfg.Map)
	}

	t.Setenv(apiURLEnvKey, "http://127.0.0.1:7001")
	t.Setenv(dataDirEnvKey, "/tmp/dm-env")
	t.Setenv(maxUploadEnvKey, "2048")

	cfg, err = Load()
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:7001" {
		t.Fatalf("expected env api_url to win, got %q", cfg.APIURL)
	}
	if cfg.DataDir != "/tmp/dm-env" {
		t.Fatalf("expected env data_dir to win, got %q", cfg.DataDir)
	}
	if cfg.Upload.MaxUploadBytes != 2048 {
		t.Fatalf("expected env upload limit to win, got %d", cfg.Upload.MaxUploadBytes)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(configDirEnvKey, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("expected defaults, got %q", cfg.APIURL)
	}
	if cfg.DataDir == "" {
		t.Fatal("expected data_dir to default to a path")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/srv/dronemap"
	if cfg.DBPath() != filepath.Join("/srv/dronemap", "dronemap.db") {
		t.Fatalf("unexpected db path: %q", cfg.DBPath())
	}
	if cfg.BlobRoot() != filepath.Join("/srv/dronemap", "blobs") {
		t.Fatalf("unexpected blob root: %q", cfg.BlobRoot())
	}
}

func TestSetKeyAndGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigName)

	if err := SetKey(path, "api_url", "http://127.0.0.1:7500"); err != nil {
		t.Fatalf("set api_url: %v", err)
	}
	if err := SetKey(path, "upload.max_upload_bytes", "4096"); err != nil {
		t.Fatalf("set upload.max_upload_bytes: %v", err)
	}
	if err := SetKey(path, "map.default_zoom", "14"); err != nil {
		t.Fatalf("set map.default_zoom: %v", err)
	}

	cfg := Default()
	if err := loadFileIfExists(path, &cfg); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:7500" {
		t.Fatalf("expected api_url round trip, got %q", cfg.APIURL)
	}
	if cfg.Upload.MaxUploadBytes != 4096 {
		t.Fatalf("expected upload limit round trip, got %d", cfg.Upload.MaxUploadBytes)
	}

	got, err := cfg.Get("map.default_zoom")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "14" {
		t.Fatalf("expected 14, got %q", got)
	}
}

func TestSetKeyRejectsUnknownAndInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigName)

	if err := SetKey(path, "nope", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if err := SetKey(path, "upload.max_upload_bytes", "-5"); err == nil {
		t.Fatal("expected error for negative limit")
	}
	if err := SetKey(path, "map.center_lat", "north"); err == nil {
		t.Fatal("expected error for non-numeric latitude")
	}
}
