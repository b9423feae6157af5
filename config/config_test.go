package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend.Provider != "local" {
		t.Errorf("expected Provider=local, got %s", cfg.Backend.Provider)
	}
	if cfg.Retrieve.NumResults != 5 {
		t.Errorf("expected NumResults=5, got %d", cfg.Retrieve.NumResults)
	}
	if !cfg.Recipes.Enabled {
		t.Error("expected recipes to be enabled by default")
	}
	if cfg.Backend.Vectorize.TokenEnv != "VECTORIZE_PIPELINE_ACCESS_TOKEN" {
		t.Errorf("unexpected TokenEnv %s", cfg.Backend.Vectorize.TokenEnv)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reciperag.yaml")

	content := `
backend:
  provider: vectorize
  vectorize:
    request_timeout: 10s
recipes:
  enabled: false
retrieve:
  num_results: 3
  cache_ttl: 1m
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend.Provider != "vectorize" {
		t.Errorf("expected Provider=vectorize, got %s", cfg.Backend.Provider)
	}
	if cfg.Backend.Vectorize.RequestTimeout != 10*time.Second {
		t.Errorf("expected RequestTimeout=10s, got %s", cfg.Backend.Vectorize.RequestTimeout)
	}
	if cfg.Backend.Vectorize.OrgIDEnv != "VECTORIZE_ORGANIZATION_ID" {
		t.Errorf("expected default OrgIDEnv to survive, got %s", cfg.Backend.Vectorize.OrgIDEnv)
	}
	if cfg.Recipes.Enabled {
		t.Error("expected recipes to be disabled")
	}
	if cfg.Retrieve.NumResults != 3 {
		t.Errorf("expected NumResults=3, got %d", cfg.Retrieve.NumResults)
	}
	if cfg.Retrieve.CacheTTL != time.Minute {
		t.Errorf("expected CacheTTL=1m, got %s", cfg.Retrieve.CacheTTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reciperag.yaml")

	content := `
backend:
  provider: pinecone
retrieve:
  num_results: 0
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"Backend.Provider must be one of", "Retrieve.NumResults"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to mention %q, got %q", want, msg)
		}
	}
}

func TestValidate_OverlapMustBeBelowChunkSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.ChunkOverlap = cfg.Index.ChunkTokens

	if err := cfg.Validate(); err == nil {
		t.Error("expected overlap >= chunk size to fail validation")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".reciperag", "config.yaml")

	content := `
index:
  chunk_tokens: 128
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Index.ChunkTokens != 128 {
		t.Errorf("expected ChunkTokens=128, got %d", cfg.Index.ChunkTokens)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reciperag.yaml")

	cfg := DefaultConfig()
	cfg.Recipes.Catalog = "recipes.yaml"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Recipes.Catalog != "recipes.yaml" {
		t.Errorf("expected Catalog=recipes.yaml, got %s", loaded.Recipes.Catalog)
	}
	if loaded.Retrieve.CacheTTL != 5*time.Minute {
		t.Errorf("expected CacheTTL=5m, got %s", loaded.Retrieve.CacheTTL)
	}
}

func TestIndexDBPath(t *testing.T) {
	path := IndexDBPath("/home/user/notes")
	expected := filepath.Join("/home/user/notes", ".reciperag", "index.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
