package spore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkingDirectoryWithArgsReturnsArityError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(working-directory 1)")
	assert.Equal(t, VmError{Kind: VmErrArityError, Function: "working-directory", ExpectedArgs: 0, ActualArgs: 1}, err)
}

func TestWorkingDirectoryReturnsWorkingDirectoryPath(t *testing.T) {
	vm := NewDefaultVm()
	wantDir, err := os.Getwd()
	assert.NoError(t, err)
	got, err := vm.EvalString("(working-directory)")
	assert.NoError(t, err)
	s, ok := tryStr(vm, got)
	assert.True(t, ok)
	assert.Equal(t, wantDir, s)
}

func TestCommandCanExecute(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString(`(command "echo" "hello")`)
	assert.NoError(t, err)
	s, ok := tryStr(vm, got)
	assert.True(t, ok)
	assert.Equal(t, "hello\n", s)
}

func TestCommandWithNoArgsReturnsError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(command)")
	assert.Equal(t, VmError{Kind: VmErrArityError, Function: "command", ExpectedArgs: 1, ActualArgs: 0}, err)
}

func TestCommandWithNonStringArgReturnsError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(command 1)")
	ve, ok := err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, "command arg(idx=0)", ve.Context)
	assert.Equal(t, StringTypeName, ve.Expected)
	assert.Equal(t, IntTypeName, ve.Actual)

	_, err = vm.EvalString(`(command "echo" 1)`)
	ve, ok = err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, "command arg(idx>0)", ve.Context)
	assert.Equal(t, IntTypeName, ve.Actual)
}

func TestCommandThatDoesNotExistReturnsError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString(`(command "does-not-exist-1234")`)
	ve, ok := err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, VmErrCustomError, ve.Kind)
}
