// Package diagnostics carries user-facing compiler diagnostics and the fatal
// assertion used for internal invariant violations.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conduit-lang/prism/internal/compiler/types"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Diagnostic is a recoverable, user-facing problem found during compilation.
type Diagnostic struct {
	Code      string               `json:"code"`
	MessageID string               `json:"message_id,omitempty"`
	Message   string               `json:"message"`
	Severity  Severity             `json:"severity"`
	Location  types.SourceLocation `json:"location"`
	Target    types.Type           `json:"-"`
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Location, d.Severity, d.Code, d.Message)
}

// IsError returns true if the diagnostic blocks compilation
func (d Diagnostic) IsError() bool {
	return d.Severity == Error
}

// Spec describes a diagnostic to create from the catalog.
type Spec struct {
	Code      string
	MessageID string
	Format    map[string]string
	Target    types.Type
}

// Create builds a diagnostic from the message catalog. An unknown code or
// message id is an internal error.
func Create(spec Spec) Diagnostic {
	def, ok := catalog[spec.Code]
	Assert(ok, "unknown diagnostic code %q", spec.Code)

	messageID := spec.MessageID
	if messageID == "" {
		messageID = defaultMessage
	}
	template, ok := def.messages[messageID]
	Assert(ok, "unknown message id %q for diagnostic %q", messageID, spec.Code)

	d := Diagnostic{
		Code:     spec.Code,
		Message:  formatMessage(template, spec.Format),
		Severity: def.severity,
		Target:   spec.Target,
	}
	if spec.MessageID != "" {
		d.MessageID = spec.MessageID
	}
	if spec.Target != nil {
		d.Location = spec.Target.Location()
	}
	return d
}

func formatMessage(template string, args map[string]string) string {
	if len(args) == 0 {
		return template
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(args)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", args[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List is an ordered collection of diagnostics
type List []Diagnostic

// HasErrors returns true if any diagnostic is an error
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Codes returns the codes of the diagnostics in order.
func (l List) Codes() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.Code
	}
	return out
}

// Error implements the error interface
func (l List) Error() string {
	if len(l) == 0 {
		return "no diagnostics"
	}
	var b strings.Builder
	for i, d := range l {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.Error())
	}
	return b.String()
}

// Collector accumulates diagnostics while a pass keeps going.
type Collector struct {
	diagnostics List
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends one diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Pipe appends diagnostics returned by a callee.
func (c *Collector) Pipe(diags List) {
	c.diagnostics = append(c.diagnostics, diags...)
}

// Diagnostics returns everything collected so far.
func (c *Collector) Diagnostics() List {
	return c.diagnostics
}
