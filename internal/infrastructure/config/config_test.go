package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cwd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer os.Chdir(cwd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %s", cfg.Database.Type)
	}
	if cfg.Inference.BaseURL != "http://localhost:11434" {
		t.Errorf("Unexpected inference base url: %s", cfg.Inference.BaseURL)
	}
	if cfg.Inference.ChatModel == cfg.Inference.DiaryModel {
		t.Error("Chat and diary models should default to distinct identifiers")
	}
	if cfg.Retention.TTL != 24*time.Hour {
		t.Errorf("Expected 24h retention TTL, got %v", cfg.Retention.TTL)
	}
}

func TestLoad_LocalFileOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cwd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer os.Chdir(cwd)

	yaml := []byte("server:\n  port: 8080\ninference:\n  summary_model: mistral\n")
	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected overridden port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Inference.SummaryModel != "mistral" {
		t.Errorf("Expected overridden summary model, got %s", cfg.Inference.SummaryModel)
	}
	// Untouched keys keep defaults
	if cfg.Emotion.BaseURL != "http://localhost:5001" {
		t.Errorf("Unexpected emotion base url: %s", cfg.Emotion.BaseURL)
	}
}
