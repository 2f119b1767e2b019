package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/prism/internal/compiler/openapi"
)

func newOpenAPICommand(opts *rootOptions) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "openapi [input]",
		Short: "Emit an OpenAPI 3 document",
		Long: `Build the route table and emit it as an OpenAPI 3 document.

Models reachable from the routes become component schemas. Projections of a
model that differ from its declaration are named after their visibility, for
example PetCreate.`,
		Example: `  # Print the document as JSON
  prism openapi api.yml

  # Write YAML to a file
  prism openapi api.yml --format yaml --output openapi.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compile(opts, args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.logger.Sync()

			if err := report(cmd.ErrOrStderr(), opts, c.diags, false); err != nil {
				return err
			}

			if format == "" {
				format = c.config.Output.Format
			}
			if output == "" {
				output = c.config.Output.File
			}

			doc, err := openapi.Emit(c.session, c.routes, openapi.Info{
				Title:   c.config.OpenAPI.Title,
				Version: c.config.OpenAPI.Version,
			})
			if err != nil {
				return err
			}
			data, err := openapi.Marshal(doc, openapi.Format(format))
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			c.logger.Info("wrote openapi document",
				zap.String("file", output),
				zap.Int("paths", doc.Paths.Len()))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	return cmd
}
