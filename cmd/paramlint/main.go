package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/toyz/paramkit/internal/cli"
	"github.com/toyz/paramkit/internal/utils"
)

func main() {
	var (
		moduleFlag  = flag.String("module", "", "Module name to report (defaults to go.mod module)")
		verboseFlag = flag.Bool("verbose", false, "List every declared parameter and show suggestions")
		quietFlag   = flag.Bool("quiet", false, "Only show errors")
		strictFlag  = flag.Bool("strict", false, "Treat duplicate parameter positions as errors")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [package-patterns...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parameter Declaration Linter\n")
		fmt.Fprintf(os.Stderr, "Checks //param:: declarations on handler methods against their signatures.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  package-patterns   Packages to check, defaults to ./...\n")
		fmt.Fprintf(os.Stderr, "\nDeclaration syntax:\n")
		fmt.Fprintf(os.Stderr, "  //param:: id url(id)\n")
		fmt.Fprintf(os.Stderr, "  //param:: page query(page, required, validate=positive)\n")
		fmt.Fprintf(os.Stderr, "  //param:: 2 body(required)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                  # Check everything recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --strict ./internal/... # Fail on duplicate positions\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --verbose ./api        # List declared parameters\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	if *quietFlag && *verboseFlag {
		fmt.Fprintf(os.Stderr, "Error: --quiet and --verbose cannot be combined\n\n")
		flag.Usage()
		os.Exit(2)
	}

	var diagnostics *utils.DiagnosticSystem
	if *quietFlag {
		diagnostics = utils.NewQuietDiagnostics()
	} else if *verboseFlag {
		diagnostics = utils.NewVerboseDiagnostics()
	} else {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	config := cli.Config{
		Patterns:   flag.Args(),
		ModuleName: *moduleFlag,
		Verbose:    *verboseFlag,
		Quiet:      *quietFlag,
		Strict:     *strictFlag,
	}

	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Patterns: %s", strings.Join(config.Patterns, ", "))
		diagnostics.List("Strict mode: %t", config.Strict)
	}

	linter := cli.NewLinter(config, diagnostics)
	if _, err := linter.Run(); err != nil {
		diagnostics.Error("Lint failed: %v", err)
		os.Exit(1)
	}
}
