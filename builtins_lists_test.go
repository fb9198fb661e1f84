package spore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListLengthWithWrongArgsReturnsError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(list-length)")
	assert.Equal(t, VmError{Kind: VmErrArityError, Function: "list-length", ExpectedArgs: 1, ActualArgs: 0}, err)

	_, err = vm.EvalString("(list-length (list) 0)")
	assert.Equal(t, VmError{Kind: VmErrArityError, Function: "list-length", ExpectedArgs: 1, ActualArgs: 2}, err)

	_, err = vm.EvalString("(list-length 0)")
	ve, ok := err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, VmErrTypeError, ve.Kind)
	assert.Equal(t, "list-length", ve.Context)
	assert.Equal(t, ListTypeName, ve.Expected)
	assert.Equal(t, IntTypeName, ve.Actual)
}

func TestListLengthOnEmptyListReturnsZero(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(list-length (list))")
	assert.NoError(t, err)
	assert.Equal(t, NewIntValue(0), got)
}

func TestListLengthOnListReturnsItsLength(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(list-length (list 1 2 3 4 5))")
	assert.NoError(t, err)
	assert.Equal(t, NewIntValue(5), got)
}
