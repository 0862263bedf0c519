package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/blimu-dev/swiftgen/pkg/openapi"
)

var validateRunner = runValidate

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := cmd.Flags().GetString("file-path")
			if err != nil {
				return err
			}
			input = strings.TrimSpace(input)
			if input == "" {
				return newUsageError("validate: --file-path is required")
			}
			if err := openapi.CheckExtension(input); err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			return validateRunner(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), input, verbose)
		},
	}
	cmd.Flags().StringP("file-path", "f", "", "Path or URL to the OpenAPI document (.json, .yaml, .yml)")
	return cmd
}
