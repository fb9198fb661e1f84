package spore

import "strings"

// ConstantKind discriminates the variants of Constant.
type ConstantKind int

const (
	ConstantVoid ConstantKind = iota
	ConstantBool
	ConstantInt
	ConstantFloat
	ConstantString
	ConstantSymbol
)

// Constant is a literal value known at compile time.
type Constant struct {
	Kind  ConstantKind
	Bool  bool
	Int   int64
	Float float64
	Str   string // String and Symbol variants
}

// IrKind discriminates the variants of Ir.
type IrKind int

const (
	IrConstant IrKind = iota
	IrDeref
	IrFunctionCall
	IrDefine
	IrIf
	IrLambda
	IrLet
	IrReturn
)

// IrReturnType distinguishes expressions, which push a value, from
// early returns, which unwind the current call frame.
type IrReturnType int

const (
	IrReturnValue IrReturnType = iota
	IrReturnEarly
)

// LetBinding is one (name, value expression) pair of a let form.
type LetBinding struct {
	Name string
	Expr Ir
}

// Ir is the intermediate representation the compiler emits bytecode
// from: a lightly desugared AST where `or`/`and` have already been
// rewritten into `let`+`if` and lambda argument lists have been
// validated.
type Ir struct {
	Kind IrKind
	Span Span

	Constant Constant // IrConstant
	Ident    string   // IrDeref

	Function *Ir  // IrFunctionCall
	Args     []Ir // IrFunctionCall

	Identifier string // IrDefine
	Expr       *Ir    // IrDefine, IrReturn

	Predicate *Ir // IrIf
	TrueExpr  *Ir // IrIf
	FalseExpr *Ir // IrIf, nil if absent

	Name        string   // IrLambda, empty if anonymous
	HasName     bool     // IrLambda
	LambdaArgs  []string // IrLambda
	Expressions []Ir     // IrLambda, IrLet

	Bindings []LetBinding // IrLet
}

// ReturnType reports whether evaluating ir produces a value or
// triggers an early return from the enclosing function.
func (ir *Ir) ReturnType() IrReturnType {
	if ir.Kind == IrReturn {
		return IrReturnEarly
	}
	return IrReturnValue
}

// NewIr lowers a single parsed node into Ir.
func NewIr(src string, node Node) (Ir, error) {
	switch node.Kind {
	case NodeVoid:
		return Ir{Kind: IrConstant, Span: node.Span, Constant: Constant{Kind: ConstantVoid}}, nil
	case NodeBool:
		return Ir{Kind: IrConstant, Span: node.Span, Constant: Constant{Kind: ConstantBool, Bool: node.Bool}}, nil
	case NodeInt:
		return Ir{Kind: IrConstant, Span: node.Span, Constant: Constant{Kind: ConstantInt, Int: node.Int}}, nil
	case NodeFloat:
		return Ir{Kind: IrConstant, Span: node.Span, Constant: Constant{Kind: ConstantFloat, Float: node.Float}}, nil
	case NodeString:
		str, _ := node.ToStringLiteral(src)
		return Ir{Kind: IrConstant, Span: node.Span, Constant: Constant{Kind: ConstantString, Str: str}}, nil
	case NodeIdentifier:
		ident := node.Span.WithSource(src).AsString()
		if strings.HasPrefix(ident, "'") {
			return Ir{Kind: IrConstant, Span: node.Span, Constant: Constant{Kind: ConstantSymbol, Str: ident[1:]}}, nil
		}
		return Ir{Kind: IrDeref, Span: node.Span, Ident: ident}, nil
	case NodeTree:
		return newTreeIr(src, node.Span, node.Children)
	default:
		return Ir{}, CompileError{Kind: CompileErrEmptyExpression}
	}
}

// newIrMany lowers every node in nodes, in order.
func newIrMany(src string, nodes []Node) ([]Ir, error) {
	out := make([]Ir, 0, len(nodes))
	for _, n := range nodes {
		ir, err := NewIr(src, n)
		if err != nil {
			return nil, err
		}
		out = append(out, ir)
	}
	return out, nil
}

func newTreeIr(src string, span Span, tree []Node) (Ir, error) {
	if len(tree) == 0 {
		return Ir{}, CompileError{Kind: CompileErrEmptyExpression}
	}

	leading := tree[0]
	rest := tree[1:]

	switch leading.Kind {
	case NodeIdentifier:
		switch leading.Span.WithSource(src).AsString() {
		case "define":
			return newDefineIr(src, span, rest)
		case "if":
			return newIfIr(src, span, rest)
		case "lambda":
			return newLambdaFormIr(src, span, rest)
		case "let":
			return newLetIr(src, span, rest)
		case "or":
			return newOrExpression(src, span, rest)
		case "and":
			return newAndExpression(src, span, rest)
		case "return":
			if len(rest) != 1 {
				return Ir{}, CompileError{Kind: CompileErrExpressionHasWrongArgs, Expression: "return", Expected: 1, Actual: len(rest)}
			}
			expr, err := NewIr(src, rest[0])
			if err != nil {
				return Ir{}, err
			}
			return Ir{Kind: IrReturn, Span: span, Expr: &expr}, nil
		default:
			return newFunctionCallIr(src, span, leading, rest)
		}
	case NodeTree:
		return newFunctionCallIr(src, span, leading, rest)
	default:
		return Ir{}, CompileError{Kind: CompileErrConstantNotCallable, Constant: span.WithSource(src).AsString()}
	}
}

func newFunctionCallIr(src string, span Span, function Node, args []Node) (Ir, error) {
	argsIr, err := newIrMany(src, args)
	if err != nil {
		return Ir{}, err
	}
	fnIr, err := NewIr(src, function)
	if err != nil {
		return Ir{}, err
	}
	return Ir{Kind: IrFunctionCall, Span: span, Function: &fnIr, Args: argsIr}, nil
}

func newDefineIr(src string, span Span, defineArgs []Node) (Ir, error) {
	switch {
	case len(defineArgs) == 2 && defineArgs[0].Kind == NodeIdentifier:
		ident := defineArgs[0].Span.WithSource(src).AsString()
		expr, err := NewIr(src, defineArgs[1])
		if err != nil {
			return Ir{}, err
		}
		return Ir{Kind: IrDefine, Span: span, Identifier: ident, Expr: &expr}, nil
	case len(defineArgs) >= 1 && defineArgs[0].Kind == NodeTree:
		signature := defineArgs[0].Children
		exprs := defineArgs[1:]
		if len(signature) == 0 || signature[0].Kind != NodeIdentifier {
			return Ir{}, CompileError{Kind: CompileErrExpectedIdentifierList, Context: "function definition"}
		}
		identSpan := signature[0].Span
		name := identSpan.WithSource(src).AsString()
		lambdaSpan := defineArgs[0].Span
		if len(exprs) > 0 {
			lambdaSpan = defineArgs[0].Span.ExtendEnd(exprs[len(exprs)-1].Span.End)
		}
		lambdaIr, err := newLambdaIr(src, lambdaSpan, name, true, signature[1:], exprs)
		if err != nil {
			return Ir{}, err
		}
		return Ir{Kind: IrDefine, Span: identSpan, Identifier: name, Expr: &lambdaIr}, nil
	case len(defineArgs) == 2:
		return Ir{}, CompileError{Kind: CompileErrExpectedIdentifier}
	default:
		return Ir{}, CompileError{Kind: CompileErrExpressionHasWrongArgs, Expression: "define", Expected: 2, Actual: len(defineArgs)}
	}
}

func newIfIr(src string, span Span, rest []Node) (Ir, error) {
	switch len(rest) {
	case 2:
		predicate, err := NewIr(src, rest[0])
		if err != nil {
			return Ir{}, err
		}
		trueExpr, err := NewIr(src, rest[1])
		if err != nil {
			return Ir{}, err
		}
		return Ir{Kind: IrIf, Span: span, Predicate: &predicate, TrueExpr: &trueExpr}, nil
	case 3:
		predicate, err := NewIr(src, rest[0])
		if err != nil {
			return Ir{}, err
		}
		trueExpr, err := NewIr(src, rest[1])
		if err != nil {
			return Ir{}, err
		}
		falseExpr, err := NewIr(src, rest[2])
		if err != nil {
			return Ir{}, err
		}
		return Ir{Kind: IrIf, Span: span, Predicate: &predicate, TrueExpr: &trueExpr, FalseExpr: &falseExpr}, nil
	default:
		expected := 2
		if len(rest) > 3 {
			expected = 3
		}
		return Ir{}, CompileError{Kind: CompileErrExpressionHasWrongArgs, Expression: "if", Expected: expected, Actual: len(rest)}
	}
}

func newLambdaFormIr(src string, span Span, rest []Node) (Ir, error) {
	if len(rest) == 0 {
		return Ir{}, CompileError{Kind: CompileErrExpressionHasWrongArgs, Expression: "lambda", Expected: 2, Actual: len(rest)}
	}
	if rest[0].Kind != NodeTree {
		return Ir{}, CompileError{Kind: CompileErrExpectedIdentifierList, Context: "lambda/function definition"}
	}
	return newLambdaIr(src, span, "", false, rest[0].Children, rest[1:])
}

func newLambdaIr(src string, span Span, name string, hasName bool, lambdaArgs []Node, exprs []Node) (Ir, error) {
	args := make([]string, 0, len(lambdaArgs))
	for _, n := range lambdaArgs {
		if n.Kind != NodeIdentifier {
			return Ir{}, CompileError{Kind: CompileErrExpectedIdentifierList, Context: "lambda/function definition"}
		}
		args = append(args, n.Span.WithSource(src).AsString())
	}
	exprsIr, err := newIrMany(src, exprs)
	if err != nil {
		return Ir{}, err
	}
	return Ir{Kind: IrLambda, Span: span, Name: name, HasName: hasName, LambdaArgs: args, Expressions: exprsIr}, nil
}

func newLetIr(src string, span Span, rest []Node) (Ir, error) {
	if len(rest) == 0 {
		return Ir{}, CompileError{Kind: CompileErrExpressionHasWrongArgs, Expression: "let", Expected: 1, Actual: 0}
	}
	if rest[0].Kind != NodeTree {
		return Ir{}, CompileError{Kind: CompileErrBadLetBindings}
	}
	bindings, err := parseLetBindings(src, rest[0].Children)
	if err != nil {
		return Ir{}, err
	}
	exprsIr, err := newIrMany(src, rest[1:])
	if err != nil {
		return Ir{}, err
	}
	return Ir{Kind: IrLet, Span: span, Bindings: bindings, Expressions: exprsIr}, nil
}

func parseLetBindings(src string, bindings []Node) ([]LetBinding, error) {
	out := make([]LetBinding, 0, len(bindings))
	for _, n := range bindings {
		if n.Kind != NodeTree || len(n.Children) != 2 || n.Children[0].Kind != NodeIdentifier {
			return nil, CompileError{Kind: CompileErrBadLetBindings}
		}
		expr, err := NewIr(src, n.Children[1])
		if err != nil {
			return nil, err
		}
		out = append(out, LetBinding{Name: n.Children[0].Span.WithSource(src).AsString(), Expr: expr})
	}
	return out, nil
}

// newOrExpression lowers `(or a b c)` into nested
// `(let ((__or_internal a)) (if __or_internal __or_internal (or b c)))`,
// short-circuiting without re-evaluating a.
func newOrExpression(src string, span Span, exprs []Node) (Ir, error) {
	switch len(exprs) {
	case 0:
		return Ir{Kind: IrConstant, Span: span, Constant: Constant{Kind: ConstantBool, Bool: false}}, nil
	case 1:
		return NewIr(src, exprs[0])
	default:
		expr, err := NewIr(src, exprs[0])
		if err != nil {
			return Ir{}, err
		}
		derefExpr := Ir{Kind: IrDeref, Span: exprs[0].Span, Ident: "__or_internal"}
		restSpan := exprs[1].Span.ExtendEnd(span.End)
		restExpr, err := newOrExpression(src, restSpan, exprs[1:])
		if err != nil {
			return Ir{}, err
		}
		orBranch := Ir{Kind: IrIf, Span: span, Predicate: &derefExpr, TrueExpr: &derefExpr, FalseExpr: &restExpr}
		return Ir{
			Kind:        IrLet,
			Span:        span,
			Bindings:    []LetBinding{{Name: "__or_internal", Expr: expr}},
			Expressions: []Ir{orBranch},
		}, nil
	}
}

// newAndExpression lowers `(and a b c)` into nested
// `(let ((__and_internal a)) (if (not __and_internal) __and_internal (and b c)))`.
func newAndExpression(src string, span Span, exprs []Node) (Ir, error) {
	switch len(exprs) {
	case 0:
		return Ir{Kind: IrConstant, Span: span, Constant: Constant{Kind: ConstantBool, Bool: true}}, nil
	case 1:
		return NewIr(src, exprs[0])
	default:
		expr, err := NewIr(src, exprs[0])
		if err != nil {
			return Ir{}, err
		}
		derefExpr := Ir{Kind: IrDeref, Span: exprs[0].Span, Ident: "__and_internal"}
		restSpan := exprs[1].Span.ExtendEnd(span.End)
		restExpr, err := newAndExpression(src, restSpan, exprs[1:])
		if err != nil {
			return Ir{}, err
		}
		notFn := Ir{Kind: IrDeref, Span: exprs[0].Span, Ident: "not"}
		predicate := Ir{Kind: IrFunctionCall, Span: exprs[0].Span, Function: &notFn, Args: []Ir{derefExpr}}
		andBranch := Ir{Kind: IrIf, Span: span, Predicate: &predicate, TrueExpr: &derefExpr, FalseExpr: &restExpr}
		return Ir{
			Kind:        IrLet,
			Span:        span,
			Bindings:    []LetBinding{{Name: "__and_internal", Expr: expr}},
			Expressions: []Ir{andBranch},
		}, nil
	}
}
