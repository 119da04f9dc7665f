package cli

import (
	"path/filepath"

	"github.com/toyz/paramkit/internal/utils"
	"github.com/toyz/paramkit/pkg/annotations"
	"github.com/toyz/paramkit/pkg/params"
)

// Summary describes one lint run
type Summary struct {
	Module       string
	Packages     int
	Methods      int
	Declarations int
	Warnings     int
	Errors       int
}

// Linter checks //param:: declarations by replaying them into a Registry
type Linter struct {
	config      Config
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
	parser      *annotations.Parser
	registry    *params.Registry
}

// NewLinter creates a linter for config
func NewLinter(config Config, diagnostics *utils.DiagnosticSystem) *Linter {
	return &Linter{
		config:      config,
		diagnostics: diagnostics,
		reporter:    NewDiagnosticReporter(diagnostics, config.Strict),
		parser:      annotations.NewParser(nil),
		registry:    params.NewRegistry(),
	}
}

// Registry returns the registry populated by Run
func (l *Linter) Registry() *params.Registry {
	return l.registry
}

// Run scans the configured packages and reports every declaration problem.
// The returned error is non-nil when at least one error was reported.
func (l *Linter) Run() (*Summary, error) {
	summary := &Summary{Module: l.resolveModule()}

	patterns := l.config.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	l.diagnostics.Section("Checking parameter declarations")
	l.diagnostics.Verbose("Module: %s", summary.Module)
	l.diagnostics.Verbose("Patterns: %v", patterns)

	result, err := NewPackageScanner(l.config.Dir).Scan(patterns)
	if err != nil {
		l.reporter.ReportError(err)
		if result == nil {
			return l.finish(summary)
		}
	}
	summary.Packages = len(result.Packages)
	summary.Methods = len(result.Methods)

	for _, stray := range result.Strays {
		l.reporter.ReportWarning(stray.Location, "//param:: on "+stray.Name+" is ignored: declarations only apply to methods",
			"Move the declaration to a method's doc comment")
	}

	for _, m := range result.Methods {
		summary.Declarations += l.lintMethod(m)
	}

	if l.config.Verbose {
		l.listDescriptors()
	}
	return l.finish(summary)
}

func (l *Linter) lintMethod(m AnnotatedMethod) int {
	l.diagnostics.Debug("Checking %s (%d annotations)", m.Key, len(m.Annotations))

	declared := 0
	for _, raw := range m.Annotations {
		ann, err := l.parser.ParseComment(raw.Text, raw.Location)
		if err != nil {
			l.reporter.Report(raw.Location, err)
			continue
		}
		index, err := ann.ResolveIndex(m.ParamNames)
		if err != nil {
			l.reporter.ReportError(err)
			continue
		}
		err = l.registry.ApplyKey(m.Key, m.ParamTypes, index, ann.Declarator)
		if err == nil || params.IsWarning(err) {
			declared++
		}
		l.reporter.Report(raw.Location, err)
	}
	return declared
}

func (l *Linter) listDescriptors() {
	l.diagnostics.Subsection("Declared parameters")
	for _, key := range l.registry.Methods() {
		l.diagnostics.List("%s", key)
		l.diagnostics.Indent()
		for _, d := range l.registry.ParamsFor(key) {
			l.diagnostics.List("%s", d)
		}
		l.diagnostics.Unindent()
	}
}

func (l *Linter) finish(summary *Summary) (*Summary, error) {
	summary.Warnings = l.reporter.Warnings()
	summary.Errors = l.reporter.Errors()

	if summary.Errors == 0 {
		l.diagnostics.Success("%d declaration(s) on %d method(s) checked", summary.Declarations, summary.Methods)
	}
	l.diagnostics.Summary("Summary",
		[]string{"Module", "Packages", "Methods", "Declarations", "Warnings", "Errors"},
		map[string]interface{}{
			"Module":       summary.Module,
			"Packages":     summary.Packages,
			"Methods":      summary.Methods,
			"Declarations": summary.Declarations,
			"Warnings":     summary.Warnings,
			"Errors":       summary.Errors,
		})
	return summary, l.reporter.Err()
}

func (l *Linter) resolveModule() string {
	if l.config.ModuleName != "" {
		return l.config.ModuleName
	}
	dir := l.config.Dir
	if dir == "" {
		dir = "."
	}
	name, err := utils.ResolveModuleName(filepath.Clean(dir))
	if err != nil {
		l.diagnostics.Verbose("Module name unavailable: %v", err)
		return ""
	}
	return name
}
