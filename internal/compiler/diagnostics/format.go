package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// JSONOutput represents the JSON structure for diagnostic output
type JSONOutput struct {
	Status   string       `json:"status"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
	Summary  Summary      `json:"summary"`
}

// Summary contains error and warning counts
type Summary struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	TotalCount   int `json:"total_count"`
}

// Summarize splits diagnostics into errors and warnings.
func Summarize(diags List) JSONOutput {
	output := JSONOutput{
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
	for _, d := range diags {
		switch d.Severity {
		case Error:
			output.Errors = append(output.Errors, d)
		case Warning:
			output.Warnings = append(output.Warnings, d)
		}
	}

	output.Status = "success"
	if len(output.Errors) > 0 {
		output.Status = "error"
	} else if len(output.Warnings) > 0 {
		output.Status = "warning"
	}

	output.Summary = Summary{
		ErrorCount:   len(output.Errors),
		WarningCount: len(output.Warnings),
		TotalCount:   len(diags),
	}
	return output
}

// FormatJSON formats diagnostics as indented JSON
func FormatJSON(diags List) (string, error) {
	data, err := json.MarshalIndent(Summarize(diags), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteTerminal writes diagnostics for a terminal, colored by severity,
// followed by a summary line.
func WriteTerminal(w io.Writer, diags List) {
	cyan := color.New(color.FgCyan)
	for _, d := range diags {
		severityColor(d.Severity).Fprintf(w, "%s[%s]", d.Severity, d.Code)
		fmt.Fprintf(w, ": %s\n", d.Message)
		cyan.Fprint(w, "  --> ")
		fmt.Fprintln(w, d.Location)
	}

	out := Summarize(diags)
	fmt.Fprint(w, FormatSummary(out.Summary.ErrorCount, out.Summary.WarningCount))
}

// FormatSummary formats a summary of errors and warnings
func FormatSummary(errorCount, warningCount int) string {
	var parts []string
	if errorCount > 0 {
		parts = append(parts, color.RedString("%d error(s)", errorCount))
	}
	if warningCount > 0 {
		parts = append(parts, color.YellowString("%d warning(s)", warningCount))
	}

	if len(parts) == 0 {
		return color.BlueString("No errors or warnings") + "\n"
	}
	return "\n" + color.New(color.Bold).Sprintf("Compilation finished with %s", strings.Join(parts, " and ")) + "\n"
}

func severityColor(s Severity) *color.Color {
	switch s {
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	case Error:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgBlue)
	}
}
