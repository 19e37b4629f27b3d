package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPipelineDefaults(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("ALLOWED_EXTENSIONS", "")
	t.Setenv("LLM_TIMEOUT_SECONDS", "")
	t.Setenv("LLM_RETRY_MAX_ATTEMPTS", "")

	cfg := Load()
	if cfg.ChunkSize != 500000 {
		t.Fatalf("expected default chunk size 500000, got %d", cfg.ChunkSize)
	}
	if len(cfg.AllowedExtensions) != 2 || cfg.AllowedExtensions[0] != "pdf" || cfg.AllowedExtensions[1] != "txt" {
		t.Fatalf("expected default extensions [pdf txt], got %v", cfg.AllowedExtensions)
	}
	if cfg.LLMTimeoutSeconds != 30 {
		t.Fatalf("expected default llm timeout 30s, got %d", cfg.LLMTimeoutSeconds)
	}
	if cfg.LLMRetryMaxAttempts != 1 {
		t.Fatalf("expected single-attempt default, got %d", cfg.LLMRetryMaxAttempts)
	}
}

func TestLoadParsesExtensionOverride(t *testing.T) {
	t.Setenv("ALLOWED_EXTENSIONS", ".PDF")

	cfg := Load()
	if len(cfg.AllowedExtensions) != 1 || cfg.AllowedExtensions[0] != "pdf" {
		t.Fatalf("expected pdf-only deployment, got %v", cfg.AllowedExtensions)
	}
}

func TestGenresDefaultTaxonomy(t *testing.T) {
	cfg := Config{}
	genres, err := cfg.Genres()
	if err != nil {
		t.Fatalf("Genres() error = %v", err)
	}
	if len(genres) != 28 {
		t.Fatalf("expected 28 stock genres, got %d", len(genres))
	}
}

func TestGenresFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genres.yaml")
	if err := os.WriteFile(path, []byte("genres:\n  - Legal\n  - Medical\n  - \n"), 0o644); err != nil {
		t.Fatalf("write genres file: %v", err)
	}

	cfg := Config{GenresFile: path}
	genres, err := cfg.Genres()
	if err != nil {
		t.Fatalf("Genres() error = %v", err)
	}
	if len(genres) != 2 || genres[0] != "Legal" || genres[1] != "Medical" {
		t.Fatalf("unexpected genres: %v", genres)
	}
}

func TestGenresFileEmptyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genres.yaml")
	if err := os.WriteFile(path, []byte("genres: []\n"), 0o644); err != nil {
		t.Fatalf("write genres file: %v", err)
	}

	cfg := Config{GenresFile: path}
	if _, err := cfg.Genres(); err == nil {
		t.Fatalf("expected error for empty taxonomy")
	}
}
