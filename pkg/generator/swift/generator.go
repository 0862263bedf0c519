package swift

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/swiftgen/pkg/config"
	"github.com/blimu-dev/swiftgen/pkg/ir"
)

//go:embed templates/*
var templatesFS embed.FS

// File is one rendered source file.
type File struct {
	Name    string
	Content string
}

// SwiftGenerator implements the Generator interface for Swift
type SwiftGenerator struct {
	out    io.Writer
	logger *slog.Logger
}

// Option configures a SwiftGenerator.
type Option func(*SwiftGenerator)

// WithOutput sets where files go when a client has no output directory.
func WithOutput(w io.Writer) Option { return func(g *SwiftGenerator) { g.out = w } }

// WithLogger sets the logger reporting written files.
func WithLogger(l *slog.Logger) Option { return func(g *SwiftGenerator) { g.logger = l } }

// NewSwiftGenerator creates a new Swift generator
func NewSwiftGenerator(opts ...Option) *SwiftGenerator {
	g := &SwiftGenerator{
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetType returns the generator type identifier
func (g *SwiftGenerator) GetType() string {
	return config.TypeSwift
}

// Generate renders the models and client files. Files land in
// client.OutDir, skipping excluded ones; with no OutDir both are written to
// the generator's output, models first.
func (g *SwiftGenerator) Generate(client config.Client, model ir.DocumentModel) error {
	files, err := g.Render(client, model)
	if err != nil {
		return err
	}

	if client.OutDir == "" {
		for _, f := range files {
			if _, err := io.WriteString(g.out, f.Content); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.Name, err)
			}
		}
		return nil
	}

	if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		target := filepath.Join(client.OutDir, f.Name)
		if client.ShouldExcludeFile(target) {
			g.logger.Debug("skipping excluded file", slog.String("path", target))
			continue
		}
		if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}
		g.logger.Info("wrote file", slog.String("path", target), slog.Int("bytes", len(f.Content)))
	}
	return nil
}

// Render produces the models file followed by the client file.
func (g *SwiftGenerator) Render(client config.Client, model ir.DocumentModel) ([]File, error) {
	client.ApplyDefaults()
	tmpl, err := parseTemplates(client)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]bool, len(model.Declared))
	models := make([]modelView, 0, len(model.Declared))
	for _, m := range model.Declared {
		declared[m.Name] = true
		models = append(models, newModelView(m))
	}
	var inputs []modelView
	for _, m := range model.Synthesized {
		if !declared[m.Name] {
			inputs = append(inputs, newModelView(m))
		}
	}

	modelsText, err := execute(tmpl, "models.swift.gotmpl", map[string]any{
		"Title":   model.Title,
		"Version": model.Version,
		"Models":  models,
	})
	if err != nil {
		return nil, err
	}
	clientText, err := execute(tmpl, "client.swift.gotmpl", map[string]any{
		"Title":      model.Title,
		"Version":    model.Version,
		"ClientName": identifier(client.Name),
		"Inputs":     inputs,
		"Methods":    newMethodViews(model.Methods),
	})
	if err != nil {
		return nil, err
	}

	return []File{
		{Name: client.ModelsFile, Content: modelsText},
		{Name: client.ClientFile, Content: clientText},
	}, nil
}

func parseTemplates(client config.Client) (*template.Template, error) {
	funcMap := template.FuncMap{
		"access": func() string { return client.Access },
		"pad":    func(level int) string { return strings.Repeat(client.Indent, level) },
		"docComment": func(lines []string, level int) string {
			prefix := strings.Repeat(client.Indent, level) + "///"
			out := make([]string, len(lines))
			for i, line := range lines {
				if line == "" {
					out[i] = prefix
				} else {
					out[i] = prefix + " " + line
				}
			}
			return strings.Join(out, "\n")
		},
	}

	// Merge sprig functions
	for k, v := range sprig.TxtFuncMap() {
		if _, ok := funcMap[k]; !ok {
			funcMap[k] = v
		}
	}

	tmpl, err := template.New("swift").Funcs(funcMap).ParseFS(templatesFS, "templates/*.gotmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
