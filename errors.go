package spore

import (
	"fmt"
	"strings"
)

// CompileErrorKind enumerates the ways compiling an AST node to
// bytecode can fail.
type CompileErrorKind int

const (
	CompileErrAst CompileErrorKind = iota
	CompileErrEmptyExpression
	CompileErrConstantNotCallable
	CompileErrExpressionHasWrongArgs
	CompileErrExpectedIdentifier
	CompileErrExpectedExpression
	CompileErrDefineNotAllowed
	CompileErrExpectedIdentifierList
	CompileErrBadLetBindings
	CompileErrArgumentDefinedMultipleTimes
)

// CompileError reports a failure while lowering the AST into IR or
// bytecode.
type CompileError struct {
	Kind CompileErrorKind

	Ast        error  // CompileErrAst
	Constant   string // CompileErrConstantNotCallable
	Expression string // CompileErrExpressionHasWrongArgs
	Expected   int    // CompileErrExpressionHasWrongArgs
	Actual     int    // CompileErrExpressionHasWrongArgs
	Context    string // CompileErrExpectedExpression, CompileErrExpectedIdentifierList
	Argument   string // CompileErrArgumentDefinedMultipleTimes
}

func (e CompileError) Error() string {
	switch e.Kind {
	case CompileErrAst:
		return fmt.Sprintf("syntax error occurred: %s", e.Ast)
	case CompileErrEmptyExpression:
		return "found unexpected empty expression"
	case CompileErrConstantNotCallable:
		return fmt.Sprintf("constant %s is not callable", e.Constant)
	case CompileErrExpressionHasWrongArgs:
		return fmt.Sprintf("expression %s expected %d arguments but found %d", e.Expression, e.Expected, e.Actual)
	case CompileErrExpectedIdentifier:
		return "expected an identifier"
	case CompileErrExpectedExpression:
		return fmt.Sprintf("%s expected expression but sub-expression is not a valid expression", e.Context)
	case CompileErrDefineNotAllowed:
		return "define is not allowed in this context, define is only allowed at the top level"
	case CompileErrExpectedIdentifierList:
		return fmt.Sprintf("%s expected identifier list", e.Context)
	case CompileErrBadLetBindings:
		return "let expected form: (let ([binding-a expr-a] [binding-b expr-b] ..) (exprs..))"
	case CompileErrArgumentDefinedMultipleTimes:
		return fmt.Sprintf("argument %s was defined multiple times", e.Argument)
	default:
		return "unknown compile error"
	}
}

func (e CompileError) Unwrap() error {
	return e.Ast
}

// VmErrorKind enumerates the ways evaluating Spore code can fail at
// runtime.
type VmErrorKind int

const (
	VmErrTypeError VmErrorKind = iota
	VmErrArityError
	VmErrCompileError
	VmErrInvalidVmState
	VmErrSymbolNotDefined
	VmErrMaximumFunctionCallDepth
	VmErrCustomValError
	VmErrCustomError
)

// VmError is the error type returned by every VM operation that can
// fail: evaluation, compilation, and native-function calls.
type VmError struct {
	Kind VmErrorKind

	Src *SourceSpan // TypeError, SymbolNotDefined; source-context annotation

	// TypeError
	Context  string
	Expected string
	Actual   string
	Value    string

	// ArityError
	Function string
	ExpectedArgs int
	ActualArgs   int

	Compile CompileError // CompileError
	Custom  CustomValError

	// SymbolNotDefined
	Symbol string

	// MaximumFunctionCallDepth
	MaxDepth  int
	CallStack []string

	// CustomError
	Message string
}

func (e VmError) Error() string {
	var body string
	switch e.Kind {
	case VmErrTypeError:
		body = fmt.Sprintf("%s expected type %s but got %s: %s", e.Context, e.Expected, e.Actual, e.Value)
	case VmErrArityError:
		body = fmt.Sprintf("%s expected %d args but got %d.", e.Function, e.ExpectedArgs, e.ActualArgs)
	case VmErrCompileError:
		return e.Compile.Error()
	case VmErrInvalidVmState:
		return "VM reached invalid state."
	case VmErrSymbolNotDefined:
		body = fmt.Sprintf("Value %s is not defined.", e.Symbol)
	case VmErrMaximumFunctionCallDepth:
		return fmt.Sprintf("Maximum function call depth of %d reached: %s", e.MaxDepth, strings.Join(e.CallStack, " -> "))
	case VmErrCustomValError:
		return e.Custom.Error()
	case VmErrCustomError:
		return e.Message
	default:
		return "unknown vm error"
	}
	if e.Src != nil {
		body += "\n" + e.Src.ContextualString() + "\n"
	}
	return body
}

// WithSrc returns a copy of e annotated with src, for TypeError and
// SymbolNotDefined variants. Other variants are returned unchanged.
func (e VmError) WithSrc(src SourceSpan) VmError {
	switch e.Kind {
	case VmErrTypeError, VmErrSymbolNotDefined:
		e.Src = &src
	}
	return e
}

func newTypeError(context, expected, actual, value string) VmError {
	return VmError{Kind: VmErrTypeError, Context: context, Expected: expected, Actual: actual, Value: value}
}

func newArityError(function string, expected, actual int) VmError {
	return VmError{Kind: VmErrArityError, Function: function, ExpectedArgs: expected, ActualArgs: actual}
}

func newCompileVmError(e CompileError) VmError {
	return VmError{Kind: VmErrCompileError, Compile: e}
}

func newSymbolNotDefinedError(symbol string) VmError {
	return VmError{Kind: VmErrSymbolNotDefined, Symbol: symbol}
}

func newMaxCallDepthError(maxDepth int, callStack []string) VmError {
	return VmError{Kind: VmErrMaximumFunctionCallDepth, MaxDepth: maxDepth, CallStack: callStack}
}

func newCustomValVmError(e CustomValError) VmError {
	return VmError{Kind: VmErrCustomValError, Custom: e}
}

func newCustomVmError(message string) VmError {
	return VmError{Kind: VmErrCustomError, Message: message}
}
