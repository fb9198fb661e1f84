package spore

func tryStr(vm *Vm, v Value) (string, bool) {
	if v.Kind() != ValueKindString {
		return "", false
	}
	return vm.objects.getStr(handleFromValue[string](v)), true
}

func tryList(vm *Vm, v Value) ([]Value, bool) {
	if v.Kind() != ValueKindList {
		return nil, false
	}
	return vm.objects.getList(handleFromValue[[]Value](v)), true
}

func stringLength(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 1 {
		return ValBuilder{}, newArityError("string-length", 1, n)
	}
	arg, _ := ctx.Arg(0)
	s, ok := tryStr(ctx.VM(), arg)
	if !ok {
		return ValBuilder{}, newTypeError("string-length", StringTypeName, arg.TypeName(), FormatValue(ctx.VM(), arg))
	}
	return ctx.NewValue(NewIntValue(int64(len(s)))), nil
}

func stringSplitImpl(ctx *NativeFunctionContext, parts []string) (ValBuilder, error) {
	elems := make([]Value, len(parts))
	for i, p := range parts {
		elems[i] = ctx.NewString(p).Value()
	}
	return ctx.NewList(elems), nil
}

func stringSplit(ctx *NativeFunctionContext) (ValBuilder, error) {
	switch n := ctx.ArgCount(); n {
	case 1:
		arg, _ := ctx.Arg(0)
		s, ok := tryStr(ctx.VM(), arg)
		if !ok {
			return ValBuilder{}, newTypeError("string-split arg(idx = 0)", StringTypeName, arg.TypeName(), FormatValueQuoted(ctx.VM(), arg))
		}
		return stringSplitImpl(ctx, splitLines(s))
	case 2:
		arg0, _ := ctx.Arg(0)
		s, ok := tryStr(ctx.VM(), arg0)
		if !ok {
			return ValBuilder{}, newTypeError("string-split arg(idx = 0)", StringTypeName, arg0.TypeName(), FormatValueQuoted(ctx.VM(), arg0))
		}
		arg1, _ := ctx.Arg(1)
		sep, ok := tryStr(ctx.VM(), arg1)
		if !ok {
			return ValBuilder{}, newTypeError("string-split arg(idx = 1)", StringTypeName, arg1.TypeName(), FormatValueQuoted(ctx.VM(), arg1))
		}
		return stringSplitImpl(ctx, splitOn(s, sep))
	default:
		expected := 2
		if n == 0 {
			expected = 1
		}
		return ValBuilder{}, newArityError("string-split", expected, n)
	}
}

// splitLines splits on '\n' the way Rust's str::split('\n') does,
// which differs from strings.Split only in having no special case:
// both behave identically for this single-char separator.
func splitLines(s string) []string {
	return splitOn(s, "\n")
}

func splitOn(s, sep string) []string {
	if sep == "" {
		return []string{s}
	}
	var parts []string
	for {
		idx := indexOf(s, sep)
		if idx < 0 {
			parts = append(parts, s)
			return parts
		}
		parts = append(parts, s[:idx])
		s = s[idx+len(sep):]
	}
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}

func stringJoin(ctx *NativeFunctionContext) (ValBuilder, error) {
	n := ctx.ArgCount()
	var list []Value
	var separator string
	switch n {
	case 1:
		arg, _ := ctx.Arg(0)
		l, ok := tryList(ctx.VM(), arg)
		if !ok {
			return ValBuilder{}, newTypeError("string-join arg(idx=0)", ListTypeName, arg.TypeName(), FormatValueQuoted(ctx.VM(), arg))
		}
		list = l
	case 2:
		arg0, _ := ctx.Arg(0)
		l, ok := tryList(ctx.VM(), arg0)
		if !ok {
			return ValBuilder{}, newTypeError("string-join arg(idx=0)", ListTypeName, arg0.TypeName(), FormatValueQuoted(ctx.VM(), arg0))
		}
		arg1, _ := ctx.Arg(1)
		sep, ok := tryStr(ctx.VM(), arg1)
		if !ok {
			return ValBuilder{}, newTypeError("string-join arg(idx=1)", StringTypeName, arg1.TypeName(), FormatValueQuoted(ctx.VM(), arg1))
		}
		list, separator = l, sep
	case 0:
		return ValBuilder{}, newArityError("string-join", 1, 0)
	default:
		return ValBuilder{}, newArityError("string-join", 2, n)
	}

	var result string
	for idx, elem := range list {
		if idx > 0 {
			result += separator
		}
		s, ok := tryStr(ctx.VM(), elem)
		if !ok {
			return ValBuilder{}, newTypeError("string-join arg(idx=0) list subelement", StringTypeName, elem.TypeName(), FormatValueQuoted(ctx.VM(), elem))
		}
		result += s
	}
	return ctx.NewString(result), nil
}
