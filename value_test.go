package spore

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestValueFitsTwoMachineWords(t *testing.T) {
	assert.Equal(t, 2*unsafe.Sizeof(uintptr(0)), unsafe.Sizeof(Value{}))
}

func TestValueIsTruthy(t *testing.T) {
	assert.False(t, Void.IsTruthy())
	assert.False(t, NewBoolValue(false).IsTruthy())
	assert.True(t, NewBoolValue(true).IsTruthy())
	assert.True(t, NewIntValue(0).IsTruthy())
	assert.True(t, NewFloatValue(0).IsTruthy())
}

func TestValueTypeNames(t *testing.T) {
	assert.Equal(t, VoidTypeName, Void.TypeName())
	assert.Equal(t, BoolTypeName, NewBoolValue(true).TypeName())
	assert.Equal(t, IntTypeName, NewIntValue(1).TypeName())
	assert.Equal(t, FloatTypeName, NewFloatValue(1).TypeName())
}

func TestValueTryAccessorsRejectWrongKind(t *testing.T) {
	_, ok := NewIntValue(1).TryBool()
	assert.False(t, ok)
	_, ok = NewBoolValue(true).TryInt()
	assert.False(t, ok)
	_, ok = Void.TryFloat()
	assert.False(t, ok)
}

func TestValueTryNumberWidensIntToFloat(t *testing.T) {
	n, ok := NewIntValue(3).TryNumber()
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)

	n, ok = NewFloatValue(2.5).TryNumber()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)
}

func TestValueSymbolRoundTrip(t *testing.T) {
	sym := Symbol{vmID: 4, idx: 9}
	v := NewSymbolValue(sym)
	assert.Equal(t, ValueKindSymbol, v.Kind())
	got, ok := v.TrySymbol()
	assert.True(t, ok)
	assert.Equal(t, sym, got)
}

func TestValueNativeFunctionRoundTrip(t *testing.T) {
	vm := NewDefaultVm()
	called := false
	fn := func(ctx *NativeFunctionContext) (ValBuilder, error) {
		called = true
		return ValBuilder{}, nil
	}
	v := NewNativeFunctionValue(vm, fn)
	assert.Equal(t, ValueKindNativeFunction, v.Kind())

	got, ok := v.TryNativeFunction(vm)
	assert.True(t, ok)
	_, _ = got(nil)
	assert.True(t, called)
}

func TestValueHandleRoundTrip(t *testing.T) {
	h := Handle[string]{vmID: 1, generation: 2, index: 3}
	v := valueFromHandle[string](ValueKindString, h)
	assert.Equal(t, ValueKindString, v.Kind())
	got := handleFromValue[string](v)
	assert.Equal(t, h, got)
}
