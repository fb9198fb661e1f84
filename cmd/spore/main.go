package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wmedrano/spore/spore"
)

type args struct {
	scriptPath *string
	importPath *string
}

func readArgs() *args {
	a := &args{
		scriptPath: flag.String("script", "", "Path to a Spore script to run non-interactively"),
		importPath: flag.String("import", "", "Path to a Spore module to import before running"),
	}
	flag.Parse()
	return a
}

func main() {
	a := readArgs()
	vm := spore.NewDefaultVm()

	if *a.importPath != "" {
		if err := vm.Import(*a.importPath); err != nil {
			log.Fatalf("Can't import %s: %s", *a.importPath, err.Error())
		}
	}

	if *a.scriptPath != "" {
		runScript(vm, *a.scriptPath)
		return
	}

	repl := spore.NewRepl(vm, os.Stdin, os.Stdout)
	repl.Run()
}

func runScript(vm *spore.Vm, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Can't read script: %s", err.Error())
	}
	if _, err := vm.EvalString(string(src)); err != nil {
		log.Fatalf("%s", err.Error())
	}
	if _, ok := vm.ValByName("main"); !ok {
		return
	}
	if _, err := vm.EvalFunctionByName("main", nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
