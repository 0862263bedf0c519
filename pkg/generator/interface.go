package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blimu-dev/swiftgen/pkg/config"
	"github.com/blimu-dev/swiftgen/pkg/generator/swift"
	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/openapi"
	"github.com/blimu-dev/swiftgen/pkg/spec"
)

// Generator defines the interface for code generators
type Generator interface {
	// Generate emits source for the given client configuration and document model
	Generate(client config.Client, model ir.DocumentModel) error
	// GetType returns the type identifier for this generator (e.g., "swift")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for client generation
type GenerateOptions struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
	Spec string
	// OutDir may be empty, in which case the generator writes to its output
	// stream instead of files.
	OutDir         string
	Name           string
	Indent         string
	Access         string
	IncludeTags    []string
	ExcludeTags    []string
	AllowPartial   bool
	SkipValidation bool
}

// Service provides high-level client generation functionality
type Service struct {
	registry *Registry
	logger   *slog.Logger
	loadOpts []openapi.Option
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger. The default discards everything.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoadOptions passes options to the document loader.
func WithLoadOptions(opts ...openapi.Option) ServiceOption {
	return func(s *Service) { s.loadOpts = append(s.loadOpts, opts...) }
}

// NewService creates a new generator service with the Swift generator
// registered
func NewService(opts ...ServiceOption) *Service {
	s := newService(NewRegistry(), opts)
	s.registry.Register(swift.NewSwiftGenerator(swift.WithLogger(s.logger)))
	return s
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry, opts ...ServiceOption) *Service {
	return newService(registry, opts)
}

func newService(registry *Registry, opts []ServiceOption) *Service {
	s := &Service{
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// Generate generates clients based on the provided options
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) error {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		return s.GenerateFromConfig(ctx, cfg, opts.SingleClient)
	}

	cfg, err := fallbackConfig(opts.Fallback)
	if err != nil {
		return err
	}
	return s.GenerateFromConfig(ctx, cfg, opts.SingleClient)
}

func fallbackConfig(fb FallbackOptions) (*config.Config, error) {
	if fb.Spec == "" {
		return nil, &spec.Error{Code: spec.ValidationError, Message: "either a config path or a spec must be provided"}
	}
	client := config.Client{
		Type:           config.TypeSwift,
		OutDir:         fb.OutDir,
		Name:           fb.Name,
		Indent:         fb.Indent,
		Access:         fb.Access,
		IncludeTags:    fb.IncludeTags,
		ExcludeTags:    fb.ExcludeTags,
		AllowPartial:   fb.AllowPartial,
		SkipValidation: fb.SkipValidation,
	}
	client.ApplyDefaults()
	if err := client.Validate(); err != nil {
		return nil, err
	}
	if client.OutDir != "" {
		abs, err := filepath.Abs(client.OutDir)
		if err != nil {
			return nil, err
		}
		client.OutDir = abs
	}
	return &config.Config{Spec: fb.Spec, Clients: []config.Client{client}}, nil
}

// BuildModel loads a document and builds its model. On partial failure the
// returned model holds every unit that could be built and the error is a
// *spec.BuildError.
func (s *Service) BuildModel(ctx context.Context, specPath string, opts ...openapi.Option) (ir.DocumentModel, error) {
	loadOpts := append(append([]openapi.Option(nil), s.loadOpts...), opts...)
	doc, err := openapi.LoadDocument(ctx, specPath, loadOpts...)
	if err != nil {
		return ir.DocumentModel{}, err
	}
	s.logger.Info("document loaded",
		slog.String("spec", specPath),
		slog.Int("schemas", len(doc.Schemas)),
		slog.Int("paths", len(doc.Paths)))

	model, err := BuildDocumentModel(doc)
	s.logger.Info("model built",
		slog.Int("objects", len(model.Declared)),
		slog.Int("synthesized", len(model.Synthesized)),
		slog.Int("methods", len(model.Methods)))

	var buildErr *spec.BuildError
	if errors.As(err, &buildErr) {
		for _, e := range buildErr.Errors {
			s.logger.Warn("part of the document could not be modeled",
				slog.String("code", string(e.Code)),
				slog.String("location", e.Location),
				slog.String("pointer", e.Pointer),
				slog.String("error", e.Message))
		}
	}
	return model, err
}

// GenerateFromConfig generates clients from a configuration. The document is
// loaded and modeled once. When parts of it cannot be modeled every client
// is still emitted, and the build error is returned afterwards unless all
// emitted clients allow partial output.
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyClient string) error {
	var selected []config.Client
	skipValidation := true
	for _, client := range cfg.Clients {
		client.ApplyDefaults()
		if onlyClient != "" && client.Name != onlyClient {
			continue
		}
		selected = append(selected, client)
		skipValidation = skipValidation && client.SkipValidation
	}
	if len(selected) == 0 {
		if onlyClient != "" {
			return fmt.Errorf("no client named %q in config", onlyClient)
		}
		return errors.New("config lists no clients")
	}

	fullModel, err := s.BuildModel(ctx, cfg.Spec, openapi.WithSkipValidation(skipValidation))
	var buildErr *spec.BuildError
	if err != nil && !errors.As(err, &buildErr) {
		return err
	}

	strict := false
	for _, client := range selected {
		gen, exists := s.registry.Get(client.Type)
		if !exists {
			return fmt.Errorf("unsupported client type: %s", client.Type)
		}

		if client.OutDir != "" {
			// Ensure output directory exists before pre-commands
			if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory for client %s: %w", client.Name, err)
			}
		}

		// Execute pre-generation commands if specified
		if err := s.executePreCommands(ctx, client); err != nil {
			return fmt.Errorf("pre-generation commands failed for client %s: %w", client.Name, err)
		}

		model, err := FilterByTags(fullModel, client.IncludeTags, client.ExcludeTags)
		if err != nil {
			return err
		}

		if err := gen.Generate(client, model); err != nil {
			return err
		}
		s.logger.Info("client generated",
			slog.String("client", client.Name),
			slog.String("outDir", client.OutDir),
			slog.Int("methods", len(model.Methods)))

		// Execute post-generation commands if specified
		if err := s.executePostGenCommands(ctx, client); err != nil {
			return fmt.Errorf("post-generation commands failed for client %s: %w", client.Name, err)
		}

		strict = strict || !client.AllowPartial
	}

	if buildErr != nil && strict {
		return buildErr
	}
	return nil
}

// executePreCommands executes the pre-generation command for a client
func (s *Service) executePreCommands(ctx context.Context, client config.Client) error {
	return s.executeCommand(ctx, client.GetPreCommand(), client.OutDir, "pre-command")
}

// executePostGenCommands executes the post-generation command for a client
func (s *Service) executePostGenCommands(ctx context.Context, client config.Client) error {
	return s.executeCommand(ctx, client.GetPostCommand(), client.OutDir, "post-command")
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(ctx context.Context, command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil // Skip empty commands
	}
	if workDir == "" {
		s.logger.Warn("skipping command without an output directory", slog.String("label", commandLabel))
		return nil
	}

	// Create command with first element as executable and rest as arguments
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir      // Execute in the specified directory
	cmd.Stdout = os.Stderr // Keep stdout free for generated text
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.logger.Debug("running command", slog.String("label", commandLabel), slog.String("command", cmdDescription))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}
	return nil
}
