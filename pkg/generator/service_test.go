package generator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/swiftgen/pkg/config"
	"github.com/blimu-dev/swiftgen/pkg/generator/swift"
	"github.com/blimu-dev/swiftgen/pkg/spec"
)

var petstorePath = filepath.Join("..", "openapi", "testdata", "petstore.yaml")

func petstoreConfig(outDir string) *config.Config {
	client := config.Client{OutDir: outDir}
	client.ApplyDefaults()
	return &config.Config{Spec: petstorePath, Clients: []config.Client{client}}
}

func TestRegistry(t *testing.T) {
	s := NewService()
	assert.Equal(t, []string{"swift"}, s.GetRegistry().GetAvailableTypes())
	gen, ok := s.GetRegistry().Get("swift")
	require.True(t, ok)
	assert.Equal(t, "swift", gen.GetType())

	_, ok = s.GetRegistry().Get("typescript")
	assert.False(t, ok)
}

func TestServiceBuildModel(t *testing.T) {
	var logs bytes.Buffer
	s := NewService(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	model, err := s.BuildModel(context.Background(), petstorePath)
	require.Error(t, err)

	var buildErr *spec.BuildError
	require.True(t, errors.As(err, &buildErr))
	require.Len(t, buildErr.Errors, 1)
	assert.Equal(t, "Error.details", buildErr.Errors[0].Location)
	assert.True(t, errors.Is(err, spec.ErrUnsupportedSchemaShape))

	require.Len(t, model.Declared, 1)
	assert.Equal(t, "Pet", model.Declared[0].Name)

	var names []string
	for _, m := range model.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"listPets", "createPets", "showPetById", "getUnknownEntity"}, names)
	assert.Equal(t, "[Pet]", model.Methods[0].Result())
	assert.Equal(t, "String", model.Methods[3].Result())

	assert.Contains(t, logs.String(), "document loaded")
	assert.Contains(t, logs.String(), "part of the document could not be modeled")
	assert.Contains(t, logs.String(), "location=Error.details")
}

func TestGenerateFromConfigWritesFilesThenReportsErrors(t *testing.T) {
	dir := t.TempDir()
	err := NewService().GenerateFromConfig(context.Background(), petstoreConfig(dir), "")

	var buildErr *spec.BuildError
	require.True(t, errors.As(err, &buildErr), "got %v", err)

	models, err := os.ReadFile(filepath.Join(dir, config.DefaultModelsFile))
	require.NoError(t, err)
	assert.Contains(t, string(models), "public struct Pet: Hashable, Codable {")
	assert.NotContains(t, string(models), "struct Error")

	client, err := os.ReadFile(filepath.Join(dir, config.DefaultClientFile))
	require.NoError(t, err)
	assert.Contains(t, string(client), "public struct CreatePetsInput: Hashable, Codable {")
	assert.Contains(t, string(client), "public func showPetById(completionHandler: @escaping (Result<Pet, Error>) -> Void) {")
}

func TestGenerateFromConfigAllowPartial(t *testing.T) {
	cfg := petstoreConfig(t.TempDir())
	cfg.Clients[0].AllowPartial = true
	assert.NoError(t, NewService().GenerateFromConfig(context.Background(), cfg, ""))
}

func TestGenerateFromConfigFiltersTags(t *testing.T) {
	var buf bytes.Buffer
	registry := NewRegistry()
	registry.Register(swift.NewSwiftGenerator(swift.WithOutput(&buf)))

	cfg := petstoreConfig("")
	cfg.Clients[0].AllowPartial = true
	cfg.Clients[0].ExcludeTags = []string{"^pets$"}

	require.NoError(t, NewServiceWithRegistry(registry).GenerateFromConfig(context.Background(), cfg, ""))
	out := buf.String()
	assert.Contains(t, out, "func getUnknownEntity(")
	assert.NotContains(t, out, "func listPets(")
	assert.NotContains(t, out, "CreatePetsInput", "unused inputs are pruned")
	assert.Contains(t, out, "public struct Pet: Hashable, Codable {")
}

func TestGenerateFromConfigSingleClient(t *testing.T) {
	cfg := petstoreConfig(t.TempDir())
	cfg.Clients[0].AllowPartial = true

	err := NewService().GenerateFromConfig(context.Background(), cfg, "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no client named "Missing"`)

	assert.NoError(t, NewService().GenerateFromConfig(context.Background(), cfg, config.DefaultClientName))
}

func TestGenerateFromConfigUnknownType(t *testing.T) {
	cfg := petstoreConfig(t.TempDir())
	err := NewServiceWithRegistry(NewRegistry()).GenerateFromConfig(context.Background(), cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported client type: swift")
}

func TestGenerateFromConfigRunsCommands(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on touch")
	}
	dir := t.TempDir()
	cfg := petstoreConfig(dir)
	cfg.Clients[0].AllowPartial = true
	cfg.Clients[0].PreCommand = []string{"touch", "pre.marker"}
	cfg.Clients[0].PostCommand = []string{"touch", "post.marker"}

	require.NoError(t, NewService().GenerateFromConfig(context.Background(), cfg, ""))
	assert.FileExists(t, filepath.Join(dir, "pre.marker"))
	assert.FileExists(t, filepath.Join(dir, "post.marker"))

	cfg.Clients[0].PostCommand = []string{"false"}
	err := NewService().GenerateFromConfig(context.Background(), cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post-generation commands failed")
}

func TestServiceGenerateFallback(t *testing.T) {
	err := NewService().Generate(context.Background(), GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, spec.ErrValidation))

	err = NewService().Generate(context.Background(), GenerateOptions{
		Fallback: FallbackOptions{Spec: petstorePath, Access: "open"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access must be")

	dir := t.TempDir()
	err = NewService().Generate(context.Background(), GenerateOptions{
		Fallback: FallbackOptions{Spec: petstorePath, OutDir: dir, Name: "PetClient", AllowPartial: true},
	})
	require.NoError(t, err)
	client, err := os.ReadFile(filepath.Join(dir, config.DefaultClientFile))
	require.NoError(t, err)
	assert.Contains(t, string(client), "public final class PetClient {")
}

func TestServiceGenerateFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	abs, err := filepath.Abs(petstorePath)
	require.NoError(t, err)
	cfgPath := filepath.Join(dir, "swiftgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
spec: `+abs+`
clients:
  - outDir: out
    allowPartial: true
    modelsFile: Models.swift
`), 0o600))

	require.NoError(t, NewService().Generate(context.Background(), GenerateOptions{ConfigPath: cfgPath}))
	assert.FileExists(t, filepath.Join(dir, "out", "Models.swift"))
}
