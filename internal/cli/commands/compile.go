package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/prism/internal/cli/config"
	"github.com/conduit-lang/prism/internal/cli/ui"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/rest"
	"github.com/conduit-lang/prism/internal/compiler/types"
	"github.com/conduit-lang/prism/internal/logging"
	"github.com/conduit-lang/prism/internal/project"
)

// errCompilationFailed is returned once error diagnostics have been reported.
var errCompilationFailed = errors.New("compilation failed")

// compilation is a loaded program with its validated route table.
type compilation struct {
	config  *config.Config
	logger  *zap.Logger
	project *project.Project
	session *rest.Session
	routes  []rest.OperationDetails
	diags   diagnostics.List
}

// compile loads the configuration and program description and builds the
// route table. args may name the input, overriding the configured one.
func compile(opts *rootOptions, args []string, stderr io.Writer) (*compilation, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	proj, err := project.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded program description",
		zap.String("file", proj.File),
		zap.Int("models", len(proj.Program.Models())))

	sessionOpts := []rest.Option{rest.WithLogger(logger)}
	if cfg.AutoVisibility {
		sessionOpts = append(sessionOpts, rest.WithAutoVisibility(true))
	}
	if cfg.Service != "" {
		ns, err := lookupService(proj.Program, cfg.Service)
		if err != nil {
			ui.WriteError(stderr, ui.ErrorOptions{
				Context:      "service not found",
				Problem:      fmt.Sprintf("Cannot find namespace '%s'.", cfg.Service),
				Suggestions:  ui.FindSimilar(cfg.Service, namespaceNames(proj.Program), nil),
				HelpCommands: []string{"Set service in prism.yml or PRISM_SERVICE"},
				NoColor:      opts.noColor,
			})
			return nil, err
		}
		sessionOpts = append(sessionOpts, rest.WithService(ns))
	}

	session := rest.NewSession(proj.Program, proj.Store, sessionOpts...)
	routes, diags, err := session.AllRoutes(nil)
	if err != nil {
		return nil, err
	}

	all := append(diagnostics.List{}, proj.Diagnostics...)
	all = append(all, diags...)
	all = append(all, rest.ReportIfNoRoutes(proj.Program, routes)...)

	return &compilation{
		config:  cfg,
		logger:  logger,
		project: proj,
		session: session,
		routes:  routes,
		diags:   all,
	}, nil
}

func lookupService(p *types.Program, dotted string) (*types.Namespace, error) {
	ns := p.GlobalNamespace()
	for _, part := range strings.Split(dotted, ".") {
		if ns = ns.LookupNamespace(part); ns == nil {
			return nil, fmt.Errorf("unknown service namespace %q", dotted)
		}
	}
	return ns, nil
}

// namespaceNames returns the dotted names of every namespace in p.
func namespaceNames(p *types.Program) []string {
	var names []string
	var walk func(ns *types.Namespace)
	walk = func(ns *types.Namespace) {
		for _, child := range ns.Namespaces {
			names = append(names, child.String())
			walk(child)
		}
	}
	walk(p.GlobalNamespace())
	return names
}

// report writes diagnostics to w and fails when any of them is an error.
// With no diagnostics nothing is written unless always is set.
func report(w io.Writer, opts *rootOptions, diags diagnostics.List, always bool) error {
	switch {
	case opts.jsonDiagnostics:
		out, err := diagnostics.FormatJSON(diags)
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		fmt.Fprintln(w, out)
	case len(diags) > 0 || always:
		diagnostics.WriteTerminal(w, diags)
	}

	if diags.HasErrors() {
		return errCompilationFailed
	}
	return nil
}
