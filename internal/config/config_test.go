package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("explicit missing config file should error")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DataDir != "data" || !cfg.Watch {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Archive.RetentionDays != 90 {
		t.Errorf("archive retention default = %d, want 90", cfg.Archive.RetentionDays)
	}
}

func TestYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kamerarchief.yaml")
	content := "addr: \":9090\"\ndata_dir: /srv/data\nwatch: false\narchive:\n  bucket: kamer-snapshots\n  hour: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DataDir != "/srv/data" || cfg.Watch {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Archive.Bucket != "kamer-snapshots" || cfg.Archive.Hour != 5 {
		t.Errorf("archive values not applied: %+v", cfg.Archive)
	}
	// Unset file fields keep their defaults.
	if cfg.DBPath != "kamerarchief.db" {
		t.Errorf("db_path default lost: %q", cfg.DBPath)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kamerarchief.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("KAMERARCHIEF_ADDR", ":7070")
	t.Setenv("KAMERARCHIEF_WATCH", "false")
	t.Setenv("KAMERARCHIEF_ARCHIVE_HOUR", "23")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("env did not override file: %q", cfg.Addr)
	}
	if cfg.Watch {
		t.Error("env bool override not applied")
	}
	if cfg.Archive.Hour != 23 {
		t.Errorf("env int override not applied: %d", cfg.Archive.Hour)
	}
}
