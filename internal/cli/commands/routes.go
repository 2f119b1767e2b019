package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/prism/internal/cli/ui"
	"github.com/conduit-lang/prism/internal/compiler/rest"
)

// routeJSON is one entry of `prism routes --format json`.
type routeJSON struct {
	Verb       string          `json:"verb"`
	Path       string          `json:"path"`
	Operation  string          `json:"operation"`
	Container  string          `json:"container"`
	Parameters []parameterJSON `json:"parameters"`
	Body       string          `json:"body,omitempty"`
	Responses  []string        `json:"responses"`
}

type parameterJSON struct {
	In   string `json:"in"`
	Name string `json:"name"`
}

func newRoutesCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "routes [input]",
		Short: "List the route table",
		Long: `Build and list the validated HTTP route table of the service namespace.

Each route shows its verb, path, operation and the container it was declared
in. Diagnostics are written to stderr.`,
		Example: `  # List routes of the input configured in prism.yml
  prism routes

  # List routes of a specific description as JSON
  prism routes api.yml --format json`,
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

			switch format {
			case "json":
				return writeRoutesJSON(cmd, c.routes)
			case "table":
				writeRoutesTable(cmd, c.routes, opts.noColor)
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: json or table")
	return cmd
}

func writeRoutesTable(cmd *cobra.Command, routes []rest.OperationDetails, noColor bool) {
	table := ui.NewTable(cmd.OutOrStdout(), []string{"VERB", "PATH", "OPERATION", "CONTAINER", "PARAMETERS"}, &ui.TableOptions{NoColor: noColor})
	for _, r := range routes {
		params := make([]string, 0, len(r.Parameters.Parameters))
		for _, p := range r.Parameters.Parameters {
			params = append(params, string(p.Type)+":"+p.Name)
		}
		table.AddRow(
			strings.ToUpper(string(r.Verb)),
			r.Path,
			r.Operation.Name,
			r.Container.String(),
			strings.Join(params, ", "),
		)
	}
	table.Render()
}

func writeRoutesJSON(cmd *cobra.Command, routes []rest.OperationDetails) error {
	out := make([]routeJSON, 0, len(routes))
	for _, r := range routes {
		entry := routeJSON{
			Verb:       string(r.Verb),
			Path:       r.Path,
			Operation:  r.Operation.Name,
			Container:  r.Container.String(),
			Parameters: []parameterJSON{},
		}
		for _, p := range r.Parameters.Parameters {
			entry.Parameters = append(entry.Parameters, parameterJSON{In: string(p.Type), Name: p.Name})
		}
		if r.Parameters.HasBody() {
			entry.Body = r.Parameters.BodyType.String()
		}
		for _, resp := range r.Responses {
			entry.Responses = append(entry.Responses, resp.StatusCode)
		}
		out = append(out, entry)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
