package spore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Repl drives a read/evaluate/print loop over a Vm: it accumulates
// input lines until they form a balanced expression, then evaluates
// and prints the result.
type Repl struct {
	vm     *Vm
	in     *bufio.Scanner
	out    io.Writer
	prompt string
}

// NewRepl creates a Repl reading from in and writing results to out.
func NewRepl(vm *Vm, in io.Reader, out io.Writer) *Repl {
	return &Repl{vm: vm, in: bufio.NewScanner(in), out: out, prompt: ">> "}
}

// Vm returns the Repl's underlying Vm.
func (r *Repl) Vm() *Vm {
	return r.vm
}

// Run reads and evaluates input until EOF, printing each result (or
// error) to out as it completes.
func (r *Repl) Run() {
	for {
		input, ok := r.readExpression()
		if !ok {
			return
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		val, err := r.vm.EvalString(input)
		if err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}
		fmt.Fprintln(r.out, r.vm.Format(val))
	}
}

// readExpression accumulates lines from in until ParseNodes succeeds
// or reports an error other than an unclosed paren, or the input
// stream ends. ok is false once there is nothing left to read.
func (r *Repl) readExpression() (string, bool) {
	var input string
	for {
		if input != "" {
			if _, err := ParseNodes(input); !isUnclosedParen(err) {
				return input, true
			}
		}
		fmt.Fprint(r.out, replPrompt(input))
		if !r.in.Scan() {
			return input, input != ""
		}
		input += r.in.Text() + "\n"
	}
}

func replPrompt(input string) string {
	if input == "" {
		return ">> "
	}
	return ".. "
}

func isUnclosedParen(err error) bool {
	var astErr AstError
	return errors.As(err, &astErr) && astErr.Kind == AstUnclosedParen
}
