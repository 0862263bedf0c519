package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blimu-dev/swiftgen"
	"github.com/blimu-dev/swiftgen/pkg/spec"
)

func TestValidateSpec_NoSpec(t *testing.T) {
	// Smoke: ValidateSpec errors on a missing file
	if _, err := os.Stat("/no/such/file.yaml"); err == nil {
		t.Fatal("expected no file")
	}
	err := swiftgen.ValidateSpec(context.Background(), "/no/such/file.yaml")
	if !errors.Is(err, spec.ErrDocumentParse) {
		t.Fatalf("expected document parse error, got %v", err)
	}
}

func TestBuildModel_Petstore(t *testing.T) {
	model, err := swiftgen.BuildModel(context.Background(), filepath.Join("..", "examples", "petstore.yaml"))
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	if len(model.Declared) == 0 || len(model.Methods) == 0 {
		t.Fatalf("expected models and methods, got %d and %d", len(model.Declared), len(model.Methods))
	}
}

func TestGenerate_WritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	err := swiftgen.Generate(context.Background(), swiftgen.Options{
		Spec:   filepath.Join("..", "examples", "petstore.yaml"),
		OutDir: dir,
		Name:   "PetstoreClient",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, name := range []string{"GeneratedModels.swift", "GeneratedClient.swift"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}
