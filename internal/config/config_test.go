package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected defaults to load without a config file, got %v", err)
	}

	if cfg.HackerNews.BaseURL != "https://hacker-news.firebaseio.com/v0" {
		t.Errorf("Expected default HN base URL, got %s", cfg.HackerNews.BaseURL)
	}
	if cfg.Fetch.MaxContentLength != 8000 {
		t.Errorf("Expected default max content length 8000, got %d", cfg.Fetch.MaxContentLength)
	}
	if cfg.LLM.BatchSize != 5 {
		t.Errorf("Expected default batch size 5, got %d", cfg.LLM.BatchSize)
	}
	if cfg.Scoring.RelevanceWeight != 0.7 || cfg.Scoring.PopularityWeight != 0.3 {
		t.Errorf("Expected default weights 0.7/0.3, got %f/%f", cfg.Scoring.RelevanceWeight, cfg.Scoring.PopularityWeight)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadBindsGeminiAPIKey(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("GEMINI_API_KEY", "test-key-123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.LLM.APIKey != "test-key-123" {
		t.Errorf("Expected API key from GEMINI_API_KEY, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("fetch:\n  max_content_length: 4000\nserver:\n  port: 9090\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Fetch.MaxContentLength != 4000 {
		t.Errorf("Expected overridden content length 4000, got %d", cfg.Fetch.MaxContentLength)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected overridden port 9090, got %d", cfg.Server.Port)
	}
	// Untouched values keep their defaults.
	if cfg.LLM.BatchSize != 5 {
		t.Errorf("Expected default batch size to survive, got %d", cfg.LLM.BatchSize)
	}
}

func TestLoadRejectsBadScoringWeights(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("scoring:\n  relevance_weight: 0.9\n  popularity_weight: 0.5\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for weights summing above 1.0")
	}
}

func TestLoadCachesGlobalConfig(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if Get() != first {
		t.Error("Expected Get to return the cached config")
	}
}
