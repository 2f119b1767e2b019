package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/prism/internal/cli/ui"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [input]",
		Short: "Report diagnostics",
		Long: `Build the route table and report diagnostics without producing output.

The command exits with a non-zero status when any error is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compile(opts, args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.logger.Sync()

			if opts.jsonDiagnostics {
				return report(cmd.OutOrStdout(), opts, c.diags, true)
			}

			out := cmd.OutOrStdout()
			var failed error
			if len(c.diags) == 0 {
				ui.WriteSuccess(out, "No problems found", opts.noColor)
			} else {
				failed = report(out, opts, c.diags, true)
			}

			service := "<none>"
			if ns := c.session.Service(); ns != nil {
				service = ns.String()
			}
			summary := diagnostics.Summarize(c.diags)
			kv := ui.NewKeyValueTable(out, opts.noColor)
			kv.AddRow("Service", service)
			kv.AddRow("Routes", strconv.Itoa(len(c.routes)))
			kv.AddRow("Errors", strconv.Itoa(summary.Summary.ErrorCount))
			kv.AddRow("Warnings", strconv.Itoa(summary.Summary.WarningCount))
			kv.Render()
			return failed
		},
	}
}
