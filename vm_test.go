package spore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantExpressionEvaluatesToConstant(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("42")
	assert.NoError(t, err)
	i, ok := got.TryInt()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)
}

func TestExpressionCanEvaluate(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(+ 1 2 3 4.0)")
	assert.NoError(t, err)
	f, ok := got.TryFloat()
	assert.True(t, ok)
	assert.Equal(t, 10.0, f)
}

func TestListFunctionReturnsList(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString(`(list 1 2.3 "three")`)
	assert.NoError(t, err)
	assert.Equal(t, `(1 2.3 "three")`, vm.Format(got))
}

func TestVmErrorIsReported(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(+ true false)")
	ve, ok := err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, VmErrTypeError, ve.Kind)
	assert.Equal(t, "+", ve.Context)
	assert.Equal(t, numberOrFloat, ve.Expected)
	assert.Equal(t, BoolTypeName, ve.Actual)
	assert.Equal(t, "true", ve.Value)
}

func TestCompileErrorIsReported(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("((define x 12))")
	ve, ok := err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, VmErrCompileError, ve.Kind)
	assert.Equal(t, CompileErrDefineNotAllowed, ve.Compile.Kind)
}

func TestDefinedVariableCanBeReferenced(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(define x 12) (+ x x)")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(24), i)

	got, err = vm.EvalString("(+ x 10)")
	assert.NoError(t, err)
	i, _ = got.TryInt()
	assert.Equal(t, int64(22), i)
}

func TestIfStatementCanReturnAnyOf(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(if true (+ 1 2))")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(3), i)

	got, err = vm.EvalString("(if true (+ 1 2) (+ 3 4))")
	assert.NoError(t, err)
	i, _ = got.TryInt()
	assert.Equal(t, int64(3), i)

	got, err = vm.EvalString("(if false (+ 1 2) (+ 3 4))")
	assert.NoError(t, err)
	i, _ = got.TryInt()
	assert.Equal(t, int64(7), i)

	got, err = vm.EvalString("(if false (+ 1 2))")
	assert.NoError(t, err)
	assert.True(t, got.IsVoid())
}

func TestIfStatementWithTruthyPredicateTakesTrueBranch(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(if 1 (+ 1 2) (+ 3 4))")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(3), i)

	got, err = vm.EvalString("(if 1 (+ 1 2))")
	assert.NoError(t, err)
	i, _ = got.TryInt()
	assert.Equal(t, int64(3), i)
}

func TestLambdaCanBeEvaluated(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("((lambda () 7))")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(7), i)

	got, err = vm.EvalString("((lambda () (+ 1 2 3)))")
	assert.NoError(t, err)
	i, _ = got.TryInt()
	assert.Equal(t, int64(6), i)
}

func TestLambdaWithArgsCanBeEvaluated(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("((lambda (a b) 4) 1 2)")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(4), i)

	got, err = vm.EvalString("((lambda (a b) (+ a b)) 1 2)")
	assert.NoError(t, err)
	i, _ = got.TryInt()
	assert.Equal(t, int64(3), i)
}

func TestFunctionCalledWithWrongNumberOfArgsReturnsError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("((lambda () 10) 1)")
	assert.Equal(t, VmError{Kind: VmErrArityError, Function: "", ExpectedArgs: 0, ActualArgs: 1}, err)

	_, err = vm.EvalString("((lambda (a) a))")
	assert.Equal(t, VmError{Kind: VmErrArityError, Function: "", ExpectedArgs: 1, ActualArgs: 0}, err)

	got, err := vm.EvalString("(define (takes-two-args arg1 arg2) (+ arg1 arg2))")
	assert.NoError(t, err)
	assert.True(t, got.IsVoid())

	_, err = vm.EvalString("(takes-two-args 1)")
	assert.Equal(t, VmError{Kind: VmErrArityError, Function: "takes-two-args", ExpectedArgs: 2, ActualArgs: 1}, err)
}

func TestCanGetValByName(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(define one 1) (define two 2)")
	assert.NoError(t, err)

	one, ok := vm.ValByName("one")
	assert.True(t, ok)
	i, _ := one.TryInt()
	assert.Equal(t, int64(1), i)

	two, ok := vm.ValByName("two")
	assert.True(t, ok)
	i, _ = two.TryInt()
	assert.Equal(t, int64(2), i)
}

func TestGettingValThatDoesNotExistReturnsFalse(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(define one 1) (define two 2)")
	assert.NoError(t, err)
	_, ok := vm.ValByName("three")
	assert.False(t, ok)
}

func TestCanEvalByFunctionWithNativeFunction(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalFunctionByName("+", []Value{NewIntValue(10), NewIntValue(5)})
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(15), i)
}

func TestEvalFunctionThatDoesNotExistReturnsError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(define (foo) 1)")
	assert.NoError(t, err)
	_, err = vm.EvalFunctionByName("bar", nil)
	assert.Equal(t, VmError{Kind: VmErrSymbolNotDefined, Symbol: "bar"}, err)
}

func TestEvalFunctionThatIsNotFunctionReturnsError(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(define foo 100)")
	assert.NoError(t, err)
	_, err = vm.EvalFunctionByName("foo", nil)
	ve, ok := err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, VmErrTypeError, ve.Kind)
	assert.Equal(t, "function invocation", ve.Context)
	assert.Equal(t, FunctionTypeName, ve.Expected)
	assert.Equal(t, IntTypeName, ve.Actual)
}

func TestCanCallFunctionRecursively(t *testing.T) {
	vm := NewDefaultVm()
	_, err := vm.EvalString("(define (fib n) (if (< n 2) n (+ (fib (+ n -1)) (fib (+ n -2)))))")
	assert.NoError(t, err)
	got, err := vm.EvalFunctionByName("fib", []Value{NewIntValue(10)})
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(55), i)
}

func TestInfiniteRecursionHalts(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(define (recurse) (recurse))")
	assert.NoError(t, err)
	assert.True(t, got.IsVoid())

	_, err = vm.EvalString("(recurse)")
	ve, ok := err.(VmError)
	assert.True(t, ok)
	assert.Equal(t, VmErrMaximumFunctionCallDepth, ve.Kind)
	assert.Equal(t, 65, ve.MaxDepth)
	wantStack := append([]string{""}, repeatString("recurse", 64)...)
	assert.Equal(t, wantStack, ve.CallStack)
}

func repeatString(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestAggressiveInlineReturnsSameResultsWhenNoRedefinitions(t *testing.T) {
	aggressive := NewVm(Settings{EnableAggressiveInline: true, EnableSourceMaps: false})
	plain := NewVm(Settings{EnableAggressiveInline: false, EnableSourceMaps: true})
	srcs := []string{"(define x 12)", "x", "(+ x x)"}
	for _, src := range srcs {
		a, err := aggressive.EvalString(src)
		assert.NoError(t, err)
		b, err := plain.EvalString(src)
		assert.NoError(t, err)
		assert.Equal(t, plain.Format(b), aggressive.Format(a))
	}
}

func TestLetStatement(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(let ([x 10] [y 20] [z (+ x y)]) (+ x y z))")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(60), i)
}

func TestWhenMultipleBindingsExistLastOneIsUsed(t *testing.T) {
	vm := NewDefaultVm()
	src := `
(let ([x 1])
  (let ([x 2]
        [x (+ x x)])
    x))
`
	got, err := vm.EvalString(src)
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(4), i)
}

func TestMultipleBindingsDontAffectPreviousBindingWhenOutOfScope(t *testing.T) {
	vm := NewDefaultVm()
	src := `
(let ([x 1])
  (let ([x 2]
        [x (+ x x)])
    x)
x)
`
	got, err := vm.EvalString(src)
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(1), i)
}

func TestLocalBindingsTakePrecedenceOverArguments(t *testing.T) {
	vm := NewDefaultVm()
	src := `
(define (foo x)
  (let ([old-x x]
        [x     10])
    (+ old-x x)))

(foo 100)
`
	got, err := vm.EvalString(src)
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(110), i)
}

func TestEmptyOrReturnsFalse(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(or)")
	assert.NoError(t, err)
	b, _ := got.TryBool()
	assert.False(t, b)
}

func TestOrWithTrueReturnsTrue(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(or false false true false)")
	assert.NoError(t, err)
	b, _ := got.TryBool()
	assert.True(t, b)
}

func TestOrWithTruthyValuesReturnsFirstTruthyValue(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(or false false 5 4 3 2)")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(5), i)
}

func TestOrWithAllFalseOrVoidReturnsLastArg(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(or void false void false void)")
	assert.NoError(t, err)
	assert.True(t, got.IsVoid())

	got, err = vm.EvalString("(or void false void false void false)")
	assert.NoError(t, err)
	b, _ := got.TryBool()
	assert.False(t, b)
}

func TestAndWithNoArgsReturnsTrue(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(and)")
	assert.NoError(t, err)
	b, _ := got.TryBool()
	assert.True(t, b)
}

func TestAndWithAllTruthyArgsReturnsLastArg(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(and 1 2 3 4)")
	assert.NoError(t, err)
	i, _ := got.TryInt()
	assert.Equal(t, int64(4), i)
}

func TestAndWithFalseArgReturnsFirstFalseArg(t *testing.T) {
	vm := NewDefaultVm()
	got, err := vm.EvalString("(and 1 2 false 3 4)")
	assert.NoError(t, err)
	b, _ := got.TryBool()
	assert.False(t, b)

	got, err = vm.EvalString("(and 1 2 void 3 4)")
	assert.NoError(t, err)
	assert.True(t, got.IsVoid())
}
