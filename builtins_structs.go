package spore

func strct(ctx *NativeFunctionContext) (ValBuilder, error) {
	n := ctx.ArgCount()
	if n%2 != 0 {
		return ValBuilder{}, newArityError("struct needs an even amount of args, ", n+1, n)
	}
	args := ctx.Args()
	s := NewStructVal(n / 2)
	for i := 0; i < n; i += 2 {
		field := args[i]
		sym, ok := field.TrySymbol()
		if !ok {
			return ValBuilder{}, newTypeError("struct field name", SymbolTypeName, field.TypeName(), FormatValueQuoted(ctx.VM(), field))
		}
		s.Set(sym, args[i+1])
	}
	return ctx.NewStruct(s), nil
}

func structGet(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 2 {
		return ValBuilder{}, newArityError("struct-get", 2, n)
	}
	fieldArg, _ := ctx.Arg(1)
	field, ok := fieldArg.TrySymbol()
	if !ok {
		return ValBuilder{}, newTypeError("struct-get arg(idx=1)", SymbolTypeName, fieldArg.TypeName(), FormatValueQuoted(ctx.VM(), fieldArg))
	}
	structArg, _ := ctx.Arg(0)
	if structArg.Kind() != ValueKindStruct {
		return ValBuilder{}, newTypeError("struct-get arg(idx=0)", StructTypeName, structArg.TypeName(), FormatValueQuoted(ctx.VM(), structArg))
	}
	s := ctx.VM().objects.getStruct(handleFromValue[*StructVal](structArg))
	v, ok := s.Get(field)
	if !ok {
		v = Void
	}
	return ctx.NewValue(v), nil
}

func structSet(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 3 {
		return ValBuilder{}, newArityError("struct-set!", 3, n)
	}
	fieldArg, _ := ctx.Arg(1)
	field, ok := fieldArg.TrySymbol()
	if !ok {
		return ValBuilder{}, newTypeError("struct-set! arg(idx=1)", SymbolTypeName, fieldArg.TypeName(), FormatValueQuoted(ctx.VM(), fieldArg))
	}
	structArg, _ := ctx.Arg(0)
	if structArg.Kind() != ValueKindStruct {
		return ValBuilder{}, newTypeError("struct-set! arg(idx=0)", StructTypeName, structArg.TypeName(), FormatValueQuoted(ctx.VM(), structArg))
	}
	s := ctx.VM().objects.getStruct(handleFromValue[*StructVal](structArg))
	val, _ := ctx.Arg(2)
	s.Set(field, val)
	return ctx.NewValue(Void), nil
}
