// Package swiftgen compiles OpenAPI documents into Swift data models, nested
// enums and client method signatures.
//
// The package offers a simple API for common use cases; the generator
// package exposes the model builders and the generation service.
//
// Quick Start:
//
//	import "github.com/blimu-dev/swiftgen"
//
//	// Generate GeneratedModels.swift and GeneratedClient.swift
//	err := swiftgen.GenerateSwiftClient(ctx,
//		"https://petstore3.swagger.io/api/v3/openapi.json",
//		"./Sources/Petstore",
//		"PetstoreClient",
//	)
package swiftgen

import (
	"context"

	"github.com/blimu-dev/swiftgen/pkg/generator"
	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/openapi"
)

// GenerateSwiftClient generates the models and client files for a document.
//
// Parameters:
//   - spec: Path to the OpenAPI document or an HTTP(S) URL
//   - outDir: Output directory; empty prints both files to stdout
//   - clientName: Name of the generated client class
//
// Parts of the document that cannot be modeled are left out of the output
// and reported in the returned *spec.BuildError after the files are written.
func GenerateSwiftClient(ctx context.Context, spec, outDir, clientName string) error {
	return generator.GenerateSwiftClient(ctx, spec, outDir, clientName)
}

// Generate generates clients with full configuration options.
//
// Example:
//
//	err := swiftgen.Generate(ctx, swiftgen.Options{
//		Spec:        "./openapi.yaml",
//		OutDir:      "./Sources/API",
//		Name:        "APIClient",
//		IncludeTags: []string{"pets"},
//		ExcludeTags: []string{"internal"},
//	})
func Generate(ctx context.Context, opts Options) error {
	return generator.GenerateClient(ctx, generator.GenerateClientOptions{
		ConfigPath:     opts.ConfigPath,
		SingleClient:   opts.SingleClient,
		Spec:           opts.Spec,
		OutDir:         opts.OutDir,
		Name:           opts.Name,
		Access:         opts.Access,
		IncludeTags:    opts.IncludeTags,
		ExcludeTags:    opts.ExcludeTags,
		AllowPartial:   opts.AllowPartial,
		SkipValidation: opts.SkipValidation,
	})
}

// GenerateFromConfig generates clients from a YAML configuration file.
// Optionally, you can specify a single client name to generate only that client.
//
// Example:
//
//	err := swiftgen.GenerateFromConfig(ctx, "./swiftgen.yaml")
func GenerateFromConfig(ctx context.Context, configPath string, singleClient ...string) error {
	return generator.GenerateFromConfig(ctx, configPath, singleClient...)
}

// BuildModel loads a document and returns its intermediate model without
// emitting code. On partial failure the model holds every part that could be
// built and the error is a *spec.BuildError.
func BuildModel(ctx context.Context, specPath string, opts ...openapi.Option) (ir.DocumentModel, error) {
	return generator.BuildModel(ctx, specPath, opts...)
}

// ValidateSpec validates an OpenAPI document.
//
// Example:
//
//	if err := swiftgen.ValidateSpec(ctx, "./openapi.yaml"); err != nil {
//		log.Fatalf("Invalid OpenAPI document: %v", err)
//	}
func ValidateSpec(ctx context.Context, specPath string) error {
	return generator.ValidateSpec(ctx, specPath)
}

// Options contains options for client generation
type Options struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleClient generates only the named client from config (optional)
	SingleClient string

	// Fallback options when no config file is provided
	Spec           string   // OpenAPI document file or URL
	OutDir         string   // Output directory; empty prints to stdout
	Name           string   // Client class name
	Access         string   // public or internal
	IncludeTags    []string // Regex patterns for tags to include
	ExcludeTags    []string // Regex patterns for tags to exclude
	AllowPartial   bool     // Succeed even when parts of the document fail
	SkipValidation bool     // Skip OpenAPI validation
}
