package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/propestimator/backend/internal/domain"
)

func TestLoadModelMissingFileNamesArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "random_forest_model.json")
	cfg := &Config{ModelBackend: "local", ModelPath: path}

	_, err := loadModel(context.Background(), cfg)

	var missing *domain.MissingArtifactError
	if !errors.As(err, &missing) || missing.Artifact != domain.ArtifactModel {
		t.Fatalf("expected missing model, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("diagnostic should name the model file: %q", err.Error())
	}
}

func TestLoadModelUnknownBackend(t *testing.T) {
	_, err := loadModel(context.Background(), &Config{ModelBackend: "onnx"})

	var missing *domain.MissingArtifactError
	if !errors.As(err, &missing) {
		t.Fatalf("expected missing model, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MODEL_PATH", "")
	t.Setenv("PORT", "9090")

	cfg := loadConfig()
	if cfg.Port != "9090" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.ModelPath != "models/random_forest_model.json" || cfg.ModelBackend != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
