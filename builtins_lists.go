package spore

func list(ctx *NativeFunctionContext) (ValBuilder, error) {
	args := ctx.Args()
	elems := make([]Value, len(args))
	copy(elems, args)
	return ctx.NewList(elems), nil
}

func listLength(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 1 {
		return ValBuilder{}, newArityError("list-length", 1, n)
	}
	arg, _ := ctx.Arg(0)
	l, ok := tryList(ctx.VM(), arg)
	if !ok {
		return ValBuilder{}, newTypeError("list-length", ListTypeName, arg.TypeName(), FormatValueQuoted(ctx.VM(), arg))
	}
	return ctx.NewValue(NewIntValue(int64(len(l)))), nil
}
