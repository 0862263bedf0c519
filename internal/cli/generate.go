package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blimu-dev/swiftgen/pkg/config"
	"github.com/blimu-dev/swiftgen/pkg/openapi"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging the config file and CLI overrides.
type GenerateConfig struct {
	Input string
	// Out is empty when the generated text goes to stdout.
	Out          string
	ConfigPath   string
	SingleClient string
	ClientName   string
	IncludeTags  []string
	ExcludeTags  []string
	// IndentWidth is a number of spaces; zero keeps the configured indent.
	IndentWidth    int
	Access         string
	AllowPartial   bool
	SkipValidation bool
	Verbose        bool

	// File is the loaded config file with overrides applied, nil without
	// --config.
	File *config.Config
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Swift models and a client from an OpenAPI document",
		Long: "Generate Swift models and a client from an OpenAPI document. " +
			"Without an output directory both files are printed to stdout.",
		Example: strings.TrimSpace(`  swiftgen generate -f petstore.yaml
  swiftgen generate -f petstore.yaml -o Sources/Petstore --client-name PetstoreClient
  swiftgen --config swiftgen.yaml generate --allow-partial`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("file-path", "f", "", "Path or URL to the OpenAPI document (.json, .yaml, .yml)")
	flags.StringP("out", "o", "", "Output directory; prints to stdout when omitted")
	flags.String("client", "", "Generate only the named client from the config file")
	flags.String("client-name", "", "Swift class name of the generated client")
	flags.StringSlice("include-tags", nil, "Regex patterns for tags to include")
	flags.StringSlice("exclude-tags", nil, "Regex patterns for tags to exclude")
	flags.Int("indent", 0, "Indent width in spaces (default 4)")
	flags.String("access", "", "Access level of generated declarations (public|internal)")
	flags.Bool("allow-partial", false, "Succeed even when parts of the document cannot be modeled")
	flags.Bool("skip-validation", false, "Skip OpenAPI validation of the document")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	var cfg GenerateConfig

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigPath = strings.TrimSpace(configPath)

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	if cfg.ConfigPath != "" {
		file, err := config.Load(cfg.ConfigPath)
		if err != nil {
			return nil, newUsageError(fmt.Sprintf("generate: config %s: %v", cfg.ConfigPath, err))
		}
		if err := applyOverridesToFile(cmd.Flags(), &cfg, file); err != nil {
			return nil, err
		}
		cfg.File = file
		return &cfg, nil
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	var err error
	if cfg.Input, err = flags.GetString("file-path"); err != nil {
		return err
	}
	if cfg.Out, err = flags.GetString("out"); err != nil {
		return err
	}
	if cfg.SingleClient, err = flags.GetString("client"); err != nil {
		return err
	}
	if cfg.ClientName, err = flags.GetString("client-name"); err != nil {
		return err
	}
	if cfg.IncludeTags, err = flags.GetStringSlice("include-tags"); err != nil {
		return err
	}
	if cfg.ExcludeTags, err = flags.GetStringSlice("exclude-tags"); err != nil {
		return err
	}
	if cfg.IndentWidth, err = flags.GetInt("indent"); err != nil {
		return err
	}
	if cfg.Access, err = flags.GetString("access"); err != nil {
		return err
	}
	if cfg.AllowPartial, err = flags.GetBool("allow-partial"); err != nil {
		return err
	}
	if cfg.SkipValidation, err = flags.GetBool("skip-validation"); err != nil {
		return err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return err
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Out = strings.TrimSpace(cfg.Out)
	cfg.SingleClient = strings.TrimSpace(cfg.SingleClient)
	cfg.ClientName = strings.TrimSpace(cfg.ClientName)
	cfg.Access = strings.ToLower(strings.TrimSpace(cfg.Access))
	cfg.IncludeTags = sanitizeTags(cfg.IncludeTags)
	cfg.ExcludeTags = sanitizeTags(cfg.ExcludeTags)
	return nil
}

// applyOverridesToFile lets explicitly set flags win over config file values.
func applyOverridesToFile(flags *pflag.FlagSet, cfg *GenerateConfig, file *config.Config) error {
	if flags.Changed("file-path") {
		if err := openapi.CheckExtension(cfg.Input); err != nil {
			return err
		}
		file.Spec = cfg.Input
	}
	for i := range file.Clients {
		c := &file.Clients[i]
		if flags.Changed("out") {
			c.OutDir = absPath(cfg.Out)
		}
		if flags.Changed("client-name") {
			c.Name = cfg.ClientName
		}
		if flags.Changed("include-tags") {
			c.IncludeTags = cfg.IncludeTags
		}
		if flags.Changed("exclude-tags") {
			c.ExcludeTags = cfg.ExcludeTags
		}
		if flags.Changed("indent") {
			c.Indent = spaces(cfg.IndentWidth)
		}
		if flags.Changed("access") {
			c.Access = cfg.Access
		}
		if flags.Changed("allow-partial") {
			c.AllowPartial = cfg.AllowPartial
		}
		if flags.Changed("skip-validation") {
			c.SkipValidation = cfg.SkipValidation
		}
		if err := c.Validate(); err != nil {
			return newUsageError(fmt.Sprintf("generate: clients[%d]: %v", i, err))
		}
	}
	return nil
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --file-path is required (set via flag or config file)")
	}
	if err := openapi.CheckExtension(c.Input); err != nil {
		return err
	}
	if c.IndentWidth < 0 {
		return newUsageError(fmt.Sprintf("generate: --indent must not be negative, got %d", c.IndentWidth))
	}
	switch c.Access {
	case "", config.AccessPublic, config.AccessInternal:
	default:
		return newUsageError(fmt.Sprintf("generate: unsupported --access %q (allowed: public, internal)", c.Access))
	}
	if overlap := intersect(c.IncludeTags, c.ExcludeTags); len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}
	return nil
}

func sanitizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	var out []string
	for _, v := range b {
		if set[v] {
			out = append(out, v)
			delete(set, v)
		}
	}
	return out
}
