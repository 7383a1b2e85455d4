// # internal/config/config_test.go
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
[project]
name = "hr-schema"
version = "2.1.0"

[build]
source_dir = "./doc"
output_dir = "./public"
formats = ["html", "markdown"]
exclude = ["drafts/**"]

[watch]
debounce = "1s"
rate = 4.0
burst = 2

[serve]
addr = ":9090"

[store]
enabled = true
path = "state/hr.db"

[inventory]
export = "public/objects.yaml"
imports = ["../common/objects.yaml"]

[ords]
spec = "ords/openapi.json"
title = "HR REST API"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Project.Name != "hr-schema" {
		t.Errorf("Expected project name hr-schema, got %s", cfg.Project.Name)
	}
	if cfg.Build.SourceDir != "./doc" {
		t.Errorf("Expected source_dir ./doc, got %s", cfg.Build.SourceDir)
	}
	if len(cfg.Build.Formats) != 2 || cfg.Build.Formats[1] != "markdown" {
		t.Errorf("Unexpected formats: %v", cfg.Build.Formats)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.Burst != 2 {
		t.Errorf("Expected burst 2, got %d", cfg.Watch.Burst)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Expected addr :9090, got %s", cfg.Serve.Addr)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "state/hr.db" {
		t.Errorf("Unexpected store config: %+v", cfg.Store)
	}
	if len(cfg.Inventory.Imports) != 1 {
		t.Errorf("Unexpected inventory imports: %v", cfg.Inventory.Imports)
	}
	if cfg.ORDS.Title != "HR REST API" {
		t.Errorf("Expected ords title HR REST API, got %s", cfg.ORDS.Title)
	}
	if cfg.ORDS.Doc != "api/rest" {
		t.Errorf("Expected default ords doc api/rest, got %s", cfg.ORDS.Doc)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `[project]
name = "bare"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(content))
	tmpfile.Close()

	cfg, _ := Load(tmpfile.Name())
	if cfg.Build.SourceDir != "docs" {
		t.Errorf("Expected default source_dir docs, got %s", cfg.Build.SourceDir)
	}
	if cfg.Build.OutputDir != "site" {
		t.Errorf("Expected default output_dir site, got %s", cfg.Build.OutputDir)
	}
	if len(cfg.Build.Formats) != 1 || cfg.Build.Formats[0] != "html" {
		t.Errorf("Unexpected default formats: %v", cfg.Build.Formats)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", cfg.Serve.Addr)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Project.Name != "plsqldoc" {
		t.Errorf("Expected project name plsqldoc, got %s", cfg.Project.Name)
	}
	if cfg.Watch.Rate != 2 || cfg.Watch.Burst != 1 {
		t.Errorf("Unexpected watch defaults: %+v", cfg.Watch)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	_, err = Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
