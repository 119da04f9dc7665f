package cli

import (
	"errors"
	"fmt"

	"github.com/toyz/paramkit/internal/utils"
	"github.com/toyz/paramkit/pkg/annotations"
	"github.com/toyz/paramkit/pkg/params"
)

// DiagnosticReporter turns declaration errors into user-facing diagnostics
// and keeps the error and warning counts
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	strict      bool
	errors      int
	warnings    int
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem, strict bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		diagnostics: diagnostics,
		strict:      strict,
	}
}

// Report prints err at loc. Joined errors are reported one by one.
// Warnings become errors in strict mode.
func (r *DiagnosticReporter) Report(loc annotations.SourceLocation, err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			r.Report(loc, e)
		}
		return
	}

	if params.IsWarning(err) && !r.strict {
		r.warnings++
		r.diagnostics.Warn("%s: %s", loc, err)
	} else {
		r.errors++
		r.diagnostics.Error("%s: %s", loc, err)
	}
	r.printSuggestions(err)
}

// ReportError prints a failure that is not tied to a source location
func (r *DiagnosticReporter) ReportError(err error) {
	r.errors++
	r.diagnostics.Error("%s", err)
	r.printSuggestions(err)
}

// ReportWarning prints a warning with optional suggestions
func (r *DiagnosticReporter) ReportWarning(loc annotations.SourceLocation, message string, suggestions ...string) {
	if r.strict {
		r.errors++
		r.diagnostics.Error("%s: %s", loc, message)
	} else {
		r.warnings++
		r.diagnostics.Warn("%s: %s", loc, message)
	}
	r.list(suggestions)
}

func (r *DiagnosticReporter) printSuggestions(err error) {
	var pe params.ParamError
	if errors.As(err, &pe) {
		r.list(pe.Suggestions())
	}
}

func (r *DiagnosticReporter) list(suggestions []string) {
	if len(suggestions) == 0 || r.diagnostics.Level() < utils.DiagnosticVerbose {
		return
	}
	r.diagnostics.Indent()
	for _, s := range suggestions {
		r.diagnostics.List("%s", s)
	}
	r.diagnostics.Unindent()
}

// Errors returns the number of errors reported so far
func (r *DiagnosticReporter) Errors() int { return r.errors }

// Warnings returns the number of warnings reported so far
func (r *DiagnosticReporter) Warnings() int { return r.warnings }

// Err summarizes the reported errors, nil when there were none
func (r *DiagnosticReporter) Err() error {
	if r.errors == 0 {
		return nil
	}
	return fmt.Errorf("%d parameter declaration error(s)", r.errors)
}
