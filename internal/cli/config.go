package cli

// Config holds the configuration for the parameter linter
type Config struct {
	// Patterns are package patterns to scan, e.g. "./..." or "./internal/api"
	Patterns []string

	// Dir is the working directory patterns are resolved against.
	// Empty means the current directory.
	Dir string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Verbose lists every recorded descriptor
	Verbose bool

	// Quiet only shows errors
	Quiet bool

	// Strict reports duplicate parameter positions as errors
	Strict bool
}
