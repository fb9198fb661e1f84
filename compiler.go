package spore

// compilerContext distinguishes compiling a top-level module form from
// compiling a nested subexpression; only the former may contain a
// define.
type compilerContext int

const (
	ctxModule compilerContext = iota
	ctxSubexpression
)

// compileManyBehavior controls what compileMany leaves on the stack.
type compileManyBehavior int

const (
	// keepAll leaves every expression's result on the stack.
	keepAll compileManyBehavior = iota
	// keepSingleReturn discards every result but the last, pushing
	// void if the expression list was empty.
	keepSingleReturn
)

// Compiler lowers parsed Spore source into a ByteCode, one function
// body (module or lambda) at a time.
type Compiler struct {
	vm       *Vm
	source   string // empty if settings.EnableSourceMaps is false
	settings Settings

	hasFunctionName bool
	functionName    string // for self-recursion via PushCurrentFunction

	arguments     []string
	localBindings []string // resolved after arguments, most-recent last

	localSpaceRequired int

	instructions      []Instruction
	instructionSource []Span
}

// Compile lowers inputSource into a callable top-level ByteCode with
// zero arguments.
func Compile(vm *Vm, inputSource string) (*ByteCode, error) {
	source := inputSource
	if !vm.settings.EnableSourceMaps {
		source = ""
	}
	c := &Compiler{vm: vm, source: source, settings: vm.settings}
	if err := c.compileImpl(inputSource, ctxModule); err != nil {
		return nil, err
	}
	return &ByteCode{
		LocalBindings:  c.localSpaceRequired,
		Instructions:   c.instructions,
		Source:         c.source,
		InstructionSrc: c.instructionSource,
	}, nil
}

func (c *Compiler) compileImpl(inputSource string, ctx compilerContext) error {
	nodes, err := ParseNodes(inputSource)
	if err != nil {
		return CompileError{Kind: CompileErrAst, Ast: err}
	}
	for _, node := range nodes {
		ir, err := NewIr(inputSource, node)
		if err != nil {
			return err
		}
		if err := c.compileOne(&ir, ctx); err != nil {
			return err
		}
	}
	return nil
}

// argIdx resolves symbol to a stack-relative argument index. Local
// bindings shadow arguments and are searched first, most-recently
// bound wins; both are indexed from the start of the call frame with
// locals coming after arguments.
func (c *Compiler) argIdx(symbol string) (int, bool) {
	for idx := len(c.localBindings) - 1; idx >= 0; idx-- {
		if c.localBindings[idx] == symbol {
			return idx + len(c.arguments), true
		}
	}
	for idx := len(c.arguments) - 1; idx >= 0; idx-- {
		if c.arguments[idx] == symbol {
			return idx, true
		}
	}
	return 0, false
}

func (c *Compiler) push(span Span, instr Instruction) {
	c.instructionSource = append(c.instructionSource, span)
	c.instructions = append(c.instructions, instr)
}

func (c *Compiler) compileOne(ir *Ir, ctx compilerContext) error {
	switch ir.Kind {
	case IrConstant:
		return c.compileOneConstant(ir.Span, ir.Constant)
	case IrDeref:
		return c.compileOneDeref(ir.Span, ir.Ident)
	case IrFunctionCall:
		return c.compileOneFunctionCall(ir.Span, ir.Function, ir.Args)
	case IrDefine:
		return c.compileOneDefine(ctx, ir.Span, ir.Identifier, ir.Expr)
	case IrIf:
		return c.compileOneIf(ir.Span, ir.Predicate, ir.TrueExpr, ir.FalseExpr)
	case IrLambda:
		return c.compileOneLambda(ir.Span, ir.Name, ir.HasName, ir.LambdaArgs, ir.Expressions)
	case IrLet:
		return c.compileOneLet(ir.Span, ir.Bindings, ir.Expressions)
	case IrReturn:
		return c.compileOneReturn(ir.Expr)
	default:
		return nil
	}
}

func (c *Compiler) compileMany(expressions []Ir, behavior compileManyBehavior) error {
	if len(expressions) == 0 {
		if behavior == keepSingleReturn {
			return c.compileOneConstant(Span{}, Constant{Kind: ConstantVoid})
		}
		return nil
	}
	exprs, last := expressions[:len(expressions)-1], &expressions[len(expressions)-1]
	for i := range exprs {
		if err := c.compileOne(&exprs[i], ctxSubexpression); err != nil {
			return err
		}
	}
	if len(exprs) > 0 && behavior == keepSingleReturn {
		c.push(Span{}, Instruction{Op: OpPop, N: len(exprs)})
	}
	return c.compileOne(last, ctxSubexpression)
}

func (c *Compiler) compileOneLet(span Span, bindings []LetBinding, expressions []Ir) error {
	for i := range bindings {
		b := &bindings[i]
		if err := c.compileOne(&b.Expr, ctxSubexpression); err != nil {
			return err
		}
		c.localBindings = append(c.localBindings, b.Name)
		idx, _ := c.argIdx(b.Name)
		c.push(span, Instruction{Op: OpBindArg, N: idx})
	}
	if err := c.compileMany(expressions, keepSingleReturn); err != nil {
		return err
	}
	if len(c.localBindings) > c.localSpaceRequired {
		c.localSpaceRequired = len(c.localBindings)
	}
	c.localBindings = c.localBindings[:len(c.localBindings)-len(bindings)]
	return nil
}

func (c *Compiler) compileOneConstant(span Span, val Constant) error {
	var instr Instruction
	switch val.Kind {
	case ConstantVoid:
		instr = Instruction{Op: OpPushConst, Const: Void}
	case ConstantBool:
		instr = Instruction{Op: OpPushConst, Const: NewBoolValue(val.Bool)}
	case ConstantInt:
		instr = Instruction{Op: OpPushConst, Const: NewIntValue(val.Int)}
	case ConstantFloat:
		instr = Instruction{Op: OpPushConst, Const: NewFloatValue(val.Float)}
	case ConstantSymbol:
		sym := c.vm.objects.getOrCreateSymbol(val.Str)
		instr = Instruction{Op: OpPushConst, Const: NewSymbolValue(sym)}
	case ConstantString:
		id := c.vm.objects.insertString(val.Str)
		instr = Instruction{Op: OpPushConst, Const: valueFromHandle[string](ValueKindString, id)}
	}
	c.push(span, instr)
	return nil
}

func (c *Compiler) compileOneDeref(span Span, ident string) error {
	if idx, ok := c.argIdx(ident); ok {
		c.push(span, Instruction{Op: OpGetArg, N: idx})
		return nil
	}
	if c.hasFunctionName && c.functionName == ident {
		c.push(span, Instruction{Op: OpPushCurrentFunction})
		return nil
	}
	sym := c.vm.objects.getOrCreateSymbol(ident)
	if c.settings.EnableAggressiveInline {
		if v, ok := c.vm.globals[sym]; ok {
			c.push(span, Instruction{Op: OpPushConst, Const: v})
			return nil
		}
	}
	c.push(span, Instruction{Op: OpDeref, Sym: sym})
	return nil
}

func (c *Compiler) compileOneFunctionCall(span Span, function *Ir, args []Ir) error {
	var nativeFn NativeFunction
	hasNative := false
	if c.settings.EnableAggressiveInline && function.Kind == IrDeref {
		sym := c.vm.objects.getOrCreateSymbol(function.Ident)
		if v, ok := c.vm.globals[sym]; ok {
			if fn, ok := v.TryNativeFunction(c.vm); ok {
				nativeFn = fn
				hasNative = true
			}
		}
	}
	if !hasNative {
		if err := c.compileOne(function, ctxSubexpression); err != nil {
			return err
		}
	}
	if err := c.compileMany(args, keepAll); err != nil {
		return err
	}
	if hasNative {
		c.push(span, Instruction{Op: OpEvalNative, NativeFn: nativeFn, N: len(args)})
	} else {
		c.push(span, Instruction{Op: OpEval, N: len(args) + 1})
	}
	return nil
}

func (c *Compiler) compileOneDefine(ctx compilerContext, span Span, ident string, expr *Ir) error {
	if ctx != ctxModule {
		return CompileError{Kind: CompileErrDefineNotAllowed}
	}
	if expr.ReturnType() != IrReturnValue {
		return CompileError{Kind: CompileErrExpectedExpression, Context: "define"}
	}
	if err := c.compileOne(expr, ctxSubexpression); err != nil {
		return err
	}
	sym := c.vm.objects.getOrCreateSymbol(ident)
	c.push(span, Instruction{Op: OpDefine, Sym: sym})
	return nil
}

func (c *Compiler) compileOneIf(span Span, predicate, trueExpr, falseExpr *Ir) error {
	if predicate.ReturnType() != IrReturnValue {
		return CompileError{Kind: CompileErrExpectedExpression, Context: "if predicate"}
	}
	if err := c.compileOne(predicate, ctxSubexpression); err != nil {
		return err
	}

	// Placeholder for the jump-if-true instruction.
	trueJumpIdx := len(c.instructions)
	c.push(span, Instruction{Op: OpPushConst, Const: Void})

	if falseExpr != nil {
		if err := c.compileOne(falseExpr, ctxSubexpression); err != nil {
			return err
		}
	} else {
		c.push(Span{}, Instruction{Op: OpPushConst, Const: Void})
	}

	// Placeholder for the unconditional jump past the true branch.
	falseJumpIdx := len(c.instructions)
	c.push(span, Instruction{Op: OpPushConst, Const: Void})

	if err := c.compileOne(trueExpr, ctxSubexpression); err != nil {
		return err
	}

	c.instructions[trueJumpIdx] = Instruction{Op: OpJumpIf, N: falseJumpIdx - trueJumpIdx}
	c.instructionSource[falseJumpIdx] = span
	c.instructions[falseJumpIdx] = Instruction{Op: OpJump, N: len(c.instructions) - falseJumpIdx - 1}
	return nil
}

func (c *Compiler) compileOneLambda(span Span, name string, hasName bool, args []string, expressions []Ir) error {
	if len(expressions) == 0 {
		return CompileError{Kind: CompileErrExpectedExpression, Context: "lambda definition expressions"}
	}
	if dupe, ok := findDuplicateArg(args); ok {
		return CompileError{Kind: CompileErrArgumentDefinedMultipleTimes, Argument: dupe}
	}
	lambdaCompiler := &Compiler{
		vm:              c.vm,
		source:          c.source,
		settings:        c.settings,
		hasFunctionName: hasName,
		functionName:    name,
		arguments:       append([]string{}, args...),
	}
	if err := lambdaCompiler.compileMany(expressions, keepAll); err != nil {
		return err
	}
	bc := &ByteCode{
		Name:           name,
		ArgCount:       len(args),
		LocalBindings:  lambdaCompiler.localSpaceRequired,
		Instructions:   lambdaCompiler.instructions,
		Source:         lambdaCompiler.source,
		InstructionSrc: lambdaCompiler.instructionSource,
	}
	id := c.vm.objects.insertBytecode(bc)
	c.push(span, Instruction{Op: OpPushConst, Const: valueFromHandle[*ByteCode](ValueKindByteCodeFunction, id)})
	return nil
}

func (c *Compiler) compileOneReturn(expr *Ir) error {
	if err := c.compileOne(expr, ctxSubexpression); err != nil {
		return err
	}
	c.push(Span{}, Instruction{Op: OpReturn})
	return nil
}

func findDuplicateArg(args []string) (string, bool) {
	seen := make(map[string]struct{}, len(args))
	for _, a := range args {
		if _, ok := seen[a]; ok {
			return a, true
		}
		seen[a] = struct{}{}
	}
	return "", false
}
