package spore

// Settings configures how a Vm compiles and runs Spore code.
type Settings struct {
	// EnableAggressiveInline substitutes a global's current value (or
	// a currently-bound native function) directly into compiled
	// bytecode instead of deferring the lookup to run time. This is
	// unsound if the global is later redefined: the inlined call site
	// keeps seeing the old value. Leave this off for interactive
	// development.
	EnableAggressiveInline bool
	// EnableSourceMaps keeps each instruction's source span around so
	// errors can point back at the offending text, at the cost of
	// extra memory per compiled function.
	EnableSourceMaps bool
	// WorkingDir is the directory Import resolves relative paths
	// against. Empty means the process's current working directory.
	WorkingDir string
}

// DefaultSettings mirrors the interpreter's defaults: safe compilation,
// source-mapped errors.
func DefaultSettings() Settings {
	return Settings{EnableAggressiveInline: false, EnableSourceMaps: true}
}
