package spore

// builtinEntry pairs a global name with the native function it binds to.
type builtinEntry struct {
	name string
	fn   NativeFunction
}

var builtins = []builtinEntry{
	{"global-values", globalValues},
	{"not", not},
	{"=", equal},
	{"+", add},
	{"-", subtract},
	{"<", less},
	{"string-length", stringLength},
	{"string-split", stringSplit},
	{"string-join", stringJoin},
	{"list", list},
	{"list-length", listLength},
	{"struct", strct},
	{"struct-get", structGet},
	{"struct-set!", structSet},
	{"new-box", newBox},
	{"set-box!", setBox},
	{"unbox", unbox},
	{"working-directory", workingDirectory},
	{"command", command},
}

func registerBuiltins(vm *Vm) {
	for _, b := range builtins {
		vm.WithNativeFunction(b.name, b.fn)
	}
}

func globalValues(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n > 0 {
		return ValBuilder{}, newArityError("global-values", 0, n)
	}
	vm := ctx.VM()
	values := make([]Value, 0, len(vm.globals))
	for sym := range vm.globals {
		values = append(values, NewSymbolValue(sym))
	}
	return ctx.NewList(values), nil
}

func not(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 1 {
		return ValBuilder{}, newArityError("not", 1, n)
	}
	v, _ := ctx.Arg(0)
	return ctx.NewValue(NewBoolValue(!v.IsTruthy())), nil
}

func equal(ctx *NativeFunctionContext) (ValBuilder, error) {
	if n := ctx.ArgCount(); n != 2 {
		return ValBuilder{}, newArityError("=", 2, n)
	}
	a, _ := ctx.Arg(0)
	b, _ := ctx.Arg(1)
	return ctx.NewValue(NewBoolValue(equalImpl(ctx.VM(), a, b))), nil
}

// equalImpl implements deep structural equality: same-reference lists
// and structs short-circuit to true before their contents are
// compared field-for-field / element-for-element. Only the variants
// handled below ever compare equal; anything else (including two
// symbols, two boxes, or two customs) falls through to false, matching
// the evaluator this is ported from.
func equalImpl(vm *Vm, a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case ValueKindVoid:
		return true
	case ValueKindBool:
		av, _ := a.TryBool()
		bv, _ := b.TryBool()
		return av == bv
	case ValueKindInt:
		av, _ := a.TryInt()
		bv, _ := b.TryInt()
		return av == bv
	case ValueKindFloat:
		av, _ := a.TryFloat()
		bv, _ := b.TryFloat()
		return av == bv
	case ValueKindString:
		return vm.objects.getStr(handleFromValue[string](a)) == vm.objects.getStr(handleFromValue[string](b))
	case ValueKindList:
		ha, hb := handleFromValue[[]Value](a), handleFromValue[[]Value](b)
		if ha == hb {
			return true
		}
		la, lb := vm.objects.getList(ha), vm.objects.getList(hb)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equalImpl(vm, la[i], lb[i]) {
				return false
			}
		}
		return true
	case ValueKindStruct:
		ha, hb := handleFromValue[*StructVal](a), handleFromValue[*StructVal](b)
		if ha == hb {
			return true
		}
		sa, sb := vm.objects.getStruct(ha), vm.objects.getStruct(hb)
		if sa.Len() != sb.Len() {
			return false
		}
		equal := true
		sa.ForEach(func(k Symbol, v Value) {
			if !equal {
				return
			}
			other, ok := sb.Get(k)
			if !ok || !equalImpl(vm, v, other) {
				equal = false
			}
		})
		return equal
	case ValueKindByteCodeFunction:
		return handleFromValue[*ByteCode](a) == handleFromValue[*ByteCode](b)
	case ValueKindNativeFunction:
		return handleFromValue[NativeFunction](a) == handleFromValue[NativeFunction](b)
	default:
		return false
	}
}
