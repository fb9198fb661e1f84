package spore

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
)

func workingDirectory(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 0 {
		return ValBuilder{}, newArityError("working-directory", 0, n)
	}
	dir, err := os.Getwd()
	if err != nil {
		return ValBuilder{}, newCustomVmError(err.Error())
	}
	return ctx.NewString(dir), nil
}

// command runs an external process and returns its stdout as a
// string. A non-empty stderr is logged rather than treated as
// failure; a nonzero exit code or launch failure is reported as an
// error.
func command(ctx *NativeFunctionContext) (ValBuilder, error) {
	args := ctx.Args()
	if len(args) == 0 {
		return ValBuilder{}, newArityError("command", 1, 0)
	}
	cmdStr, ok := tryStr(ctx.VM(), args[0])
	if !ok {
		return ValBuilder{}, newTypeError("command arg(idx=0)", StringTypeName, args[0].TypeName(), FormatValueQuoted(ctx.VM(), args[0]))
	}
	cmdArgs := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		s, ok := tryStr(ctx.VM(), a)
		if !ok {
			return ValBuilder{}, newTypeError("command arg(idx>0)", StringTypeName, a.TypeName(), FormatValueQuoted(ctx.VM(), a))
		}
		cmdArgs = append(cmdArgs, s)
	}
	cmd := exec.Command(cmdStr, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	if stderr.Len() > 0 {
		log.Printf("spore: command %s: %s", cmdStr, stderr.String())
	}
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return ValBuilder{}, newCustomVmError(fmt.Sprintf("command %s exited with code %d", cmdStr, exitErr.ExitCode()))
		}
		return ValBuilder{}, newCustomVmError(fmt.Sprintf("failed to run command %s: %s", cmdStr, runErr))
	}
	return ctx.NewString(stdout.String()), nil
}
