package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Client types and access levels.
const (
	TypeSwift      = "swift"
	AccessPublic   = "public"
	AccessInternal = "internal"
)

// Defaults applied by Load and Client.ApplyDefaults.
const (
	DefaultClientName = "APIClient"
	DefaultModelsFile = "GeneratedModels.swift"
	DefaultClientFile = "GeneratedClient.swift"
	DefaultIndent     = "    "
)

// Config represents the complete configuration for Swift client generation
type Config struct {
	Spec    string   `yaml:"spec"`
	Name    string   `yaml:"name"`
	Clients []Client `yaml:"clients"`
}

// Client represents configuration for a single generated Swift client
type Client struct {
	Type   string `yaml:"type"`
	OutDir string `yaml:"outDir"`
	// Name is the Swift class name of the generated client.
	Name       string `yaml:"name"`
	ModelsFile string `yaml:"modelsFile"`
	ClientFile string `yaml:"clientFile"`
	Indent     string `yaml:"indent"`
	// Access is the access level of generated declarations: public or internal.
	Access      string   `yaml:"access"`
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["swiftformat", "."]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	PostCommand []string `yaml:"postCommand"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be generated
	// Example: ["GeneratedClient.swift"]
	ExcludeFiles []string `yaml:"exclude"`
	// AllowPartial writes output even when parts of the document could not
	// be modeled.
	AllowPartial   bool `yaml:"allowPartial"`
	SkipValidation bool `yaml:"skipValidation"`
}

// ApplyDefaults fills unset fields.
func (c *Client) ApplyDefaults() {
	if c.Type == "" {
		c.Type = TypeSwift
	}
	if c.Name == "" {
		c.Name = DefaultClientName
	}
	if c.ModelsFile == "" {
		c.ModelsFile = DefaultModelsFile
	}
	if c.ClientFile == "" {
		c.ClientFile = DefaultClientFile
	}
	if c.Indent == "" {
		c.Indent = DefaultIndent
	}
	if c.Access == "" {
		c.Access = AccessPublic
	}
}

// Validate reports the first invalid field.
func (c *Client) Validate() error {
	if c.Type != TypeSwift {
		return fmt.Errorf("unsupported client type %q", c.Type)
	}
	if c.Access != AccessPublic && c.Access != AccessInternal {
		return fmt.Errorf("access must be %q or %q, got %q", AccessPublic, AccessInternal, c.Access)
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("indent must be spaces or tabs")
	}
	return nil
}

// GetPreCommand returns the pre-generation command to execute.
func (c *Client) GetPreCommand() []string {
	return c.PreCommand
}

// GetPostCommand returns the post-generation command to execute.
func (c *Client) GetPostCommand() []string {
	return c.PostCommand
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (c *Client) ShouldExcludeFile(targetPath string) bool {
	if len(c.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		return false
	}

	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, excludePattern := range c.ExcludeFiles {
		normalizedExclude := filepath.ToSlash(excludePattern)

		if relPath == normalizedExclude {
			return true
		}

		// "Sources/" excludes everything below it
		normalizedExclude = strings.TrimSuffix(normalizedExclude, "/")
		if normalizedExclude != "" && strings.HasPrefix(relPath, normalizedExclude+"/") {
			return true
		}
	}

	return false
}

// IsURL reports whether spec is an http(s) URL.
func IsURL(spec string) bool {
	u, err := url.Parse(spec)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Normalize(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg, applies defaults and makes relative paths
// absolute against baseDir.
func (cfg *Config) Normalize(baseDir string) error {
	if cfg.Spec == "" {
		return errors.New("config.spec is required")
	}
	if len(cfg.Clients) == 0 {
		return errors.New("config.clients must list at least one client")
	}
	for i := range cfg.Clients {
		c := &cfg.Clients[i]
		c.ApplyDefaults()
		if c.OutDir == "" {
			return fmt.Errorf("clients[%d] missing required field outDir", i)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("clients[%d]: %w", i, err)
		}
		c.OutDir = absolute(baseDir, c.OutDir)
	}
	// Do not absolutize when spec is an HTTP(S) URL
	if !IsURL(cfg.Spec) {
		cfg.Spec = absolute(baseDir, cfg.Spec)
	}
	return nil
}

func absolute(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if baseDir != "" {
		p = filepath.Join(baseDir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
