package spore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Import reads the file at path (resolved against Settings.WorkingDir,
// or the process's working directory if unset), compiles it, and
// evaluates its top-level forms against vm so that any globals it
// defines become visible to subsequent calls.
//
// The module's identity is its file stem, used only to detect a
// circular import (a file transitively importing itself) while it is
// still loading. Re-importing an already-loaded stem is not an error:
// its top-level defines simply overwrite whatever they previously
// bound, the same way a repeated top-level Define would. A failed or
// circular import rolls back any bindings the partial load produced.
func (vm *Vm) Import(path string) error {
	dir := vm.settings.WorkingDir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return newCustomVmError(fmt.Sprintf("import %q: %s", path, err))
		}
	}
	full := filepath.Join(dir, path)
	stem := moduleStem(full)

	if vm.importsInFly[stem] {
		return newCustomVmError(fmt.Sprintf("circular import of module %q", stem))
	}

	src, err := os.ReadFile(full)
	if err != nil {
		return newCustomVmError(fmt.Sprintf("import %q: %s", path, err))
	}

	snapshot := make(map[Symbol]Value, len(vm.globals))
	for sym, val := range vm.globals {
		snapshot[sym] = val
	}

	vm.importsInFly[stem] = true
	_, evalErr := vm.EvalString(string(src))
	delete(vm.importsInFly, stem)

	if evalErr != nil {
		vm.globals = snapshot
		return newCustomVmError(fmt.Sprintf("import %q: %s", path, evalErr))
	}
	return nil
}

// moduleStem derives a module's identity from its file name, stripped
// of any extension: "./lib/math.spore" and "./lib/math" both identify
// the module "math".
func moduleStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
