package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/blimu-dev/swiftgen/pkg/generator"
	"github.com/blimu-dev/swiftgen/pkg/generator/swift"
	"github.com/blimu-dev/swiftgen/pkg/openapi"
)

func runGenerate(ctx context.Context, stdout, stderr io.Writer, cfg *GenerateConfig) error {
	logger := newLogger(stderr, cfg.Verbose)

	registry := generator.NewRegistry()
	registry.Register(swift.NewSwiftGenerator(swift.WithOutput(stdout), swift.WithLogger(logger)))
	service := generator.NewServiceWithRegistry(registry, generator.WithLogger(logger))

	if cfg.File != nil {
		return service.GenerateFromConfig(ctx, cfg.File, cfg.SingleClient)
	}

	indent := ""
	if cfg.IndentWidth > 0 {
		indent = spaces(cfg.IndentWidth)
	}
	return service.Generate(ctx, generator.GenerateOptions{
		Fallback: generator.FallbackOptions{
			Spec:           cfg.Input,
			OutDir:         cfg.Out,
			Name:           cfg.ClientName,
			Indent:         indent,
			Access:         cfg.Access,
			IncludeTags:    cfg.IncludeTags,
			ExcludeTags:    cfg.ExcludeTags,
			AllowPartial:   cfg.AllowPartial,
			SkipValidation: cfg.SkipValidation,
		},
	})
}

func runValidate(ctx context.Context, stdout, stderr io.Writer, input string, verbose bool) error {
	logger := newLogger(stderr, verbose)
	logger.Debug("validating document", "input", input)
	if err := openapi.ValidateDocument(ctx, input); err != nil {
		return err
	}
	_, err := fmt.Fprintf(stdout, "%s is a valid OpenAPI document\n", input)
	return err
}
