package spore

func newBox(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 1 {
		return ValBuilder{}, newArityError("new-box", 1, n)
	}
	v, _ := ctx.Arg(0)
	return ctx.NewMutableBox(v), nil
}

func setBox(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 2 {
		return ValBuilder{}, newArityError("set-box!", 2, n)
	}
	first, _ := ctx.Arg(0)
	second, _ := ctx.Arg(1)
	if first.Kind() != ValueKindMutableBox {
		return ValBuilder{}, newTypeError("set-box!", MutableBoxTypeName, first.TypeName(), FormatValueQuoted(ctx.VM(), first))
	}
	old := ctx.VM().objects.setMutableBox(handleFromValue[Value](first), second)
	return ctx.NewValue(old), nil
}

func unbox(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 1 {
		return ValBuilder{}, newArityError("unbox", 1, n)
	}
	arg, _ := ctx.Arg(0)
	if arg.Kind() != ValueKindMutableBox {
		return ValBuilder{}, newTypeError("unbox", MutableBoxTypeName, arg.TypeName(), FormatValueQuoted(ctx.VM(), arg))
	}
	boxed := ctx.VM().objects.getMutableBox(handleFromValue[Value](arg))
	return ctx.NewValue(boxed), nil
}
