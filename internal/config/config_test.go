package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContentDir != "content" || cfg.OutputDir != "site" || cfg.HTTPAddr != ":8080" {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.Strict {
		t.Error("strict should default to true")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studypress.yml")
	data := []byte("title: My Book\ncontent_dir: docs\nstrict: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Title != "My Book" || cfg.ContentDir != "docs" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Strict {
		t.Error("strict should be false per file")
	}
	// Unset fields keep defaults.
	if cfg.OutputDir != "site" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studypress.yml")
	if err := os.WriteFile(path, []byte("title: File Title\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYPRESS_TITLE", "Env Title")
	t.Setenv("STUDYPRESS_STRICT", "false")
	t.Setenv("STUDYPRESS_CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Title != "Env Title" {
		t.Errorf("title = %q", cfg.Title)
	}
	if cfg.Strict {
		t.Error("env should disable strict")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("explicit missing config file should error")
	}
}
