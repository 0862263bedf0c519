package generator

import (
	"context"

	"github.com/blimu-dev/swiftgen/pkg/config"
	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/openapi"
)

// GenerateClient is a convenience function for generating Swift clients with minimal configuration
func GenerateClient(ctx context.Context, opts GenerateClientOptions) error {
	service := NewService()

	genOpts := GenerateOptions{
		ConfigPath:   opts.ConfigPath,
		SingleClient: opts.SingleClient,
		Fallback: FallbackOptions{
			Spec:           opts.Spec,
			OutDir:         opts.OutDir,
			Name:           opts.Name,
			Access:         opts.Access,
			IncludeTags:    opts.IncludeTags,
			ExcludeTags:    opts.ExcludeTags,
			AllowPartial:   opts.AllowPartial,
			SkipValidation: opts.SkipValidation,
		},
	}

	return service.Generate(ctx, genOpts)
}

// GenerateClientOptions contains options for the convenience GenerateClient function
type GenerateClientOptions struct {
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
	AllowPartial   bool     // Write output even when parts of the document fail
	SkipValidation bool     // Skip OpenAPI validation
}

// GenerateSwiftClient is a convenience function specifically for Swift client generation
func GenerateSwiftClient(ctx context.Context, spec, outDir, clientName string) error {
	return GenerateClient(ctx, GenerateClientOptions{
		Spec:   spec,
		OutDir: outDir,
		Name:   clientName,
	})
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(ctx context.Context, configPath string, singleClient ...string) error {
	service := NewService()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	onlyClient := ""
	if len(singleClient) > 0 {
		onlyClient = singleClient[0]
	}

	return service.GenerateFromConfig(ctx, cfg, onlyClient)
}

// BuildModel loads a document and returns its model without emitting code
func BuildModel(ctx context.Context, specPath string, opts ...openapi.Option) (ir.DocumentModel, error) {
	return NewService().BuildModel(ctx, specPath, opts...)
}

// ValidateSpec validates an OpenAPI document
func ValidateSpec(ctx context.Context, specPath string) error {
	return openapi.ValidateDocument(ctx, specPath)
}
