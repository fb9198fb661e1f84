package spore

const numberOrFloat = "int or float"

// addImpl sums args the way (+ ...) does: every int contributes to an
// int accumulator, every float to a float accumulator, and the result
// is a float only if the float accumulator ended up non-zero. This
// mirrors the add-then-check-for-nonzero-float quirk of the evaluator
// this is ported from, including its edge case: floats that sum to
// exactly 0.0 fall back to an int result.
func addImpl(ctx *NativeFunctionContext, context string, args []Value) (Value, error) {
	var intSum int64
	var floatSum float64
	for _, a := range args {
		switch a.Kind() {
		case ValueKindInt:
			i, _ := a.TryInt()
			intSum += i
		case ValueKindFloat:
			f, _ := a.TryFloat()
			floatSum += f
		default:
			return Value{}, newTypeError(context, numberOrFloat, a.TypeName(), FormatValueQuoted(ctx.VM(), a))
		}
	}
	if floatSum != 0.0 {
		return NewFloatValue(floatSum + float64(intSum)), nil
	}
	return NewIntValue(intSum), nil
}

func add(ctx *NativeFunctionContext) (ValBuilder, error) {
	v, err := addImpl(ctx, "+", ctx.Args())
	if err != nil {
		return ValBuilder{}, err
	}
	return ctx.NewValue(v), nil
}

func negate(ctx *NativeFunctionContext, context string, v Value) (Value, error) {
	switch v.Kind() {
	case ValueKindInt:
		i, _ := v.TryInt()
		return NewIntValue(-i), nil
	case ValueKindFloat:
		f, _ := v.TryFloat()
		return NewFloatValue(-f), nil
	default:
		return Value{}, newTypeError(context, numberOrFloat, v.TypeName(), FormatValueQuoted(ctx.VM(), v))
	}
}

// subtract implements the variadic (- ...) builtin: zero args is an
// arity error, one arg negates, two or more subtracts the sum of
// every arg after the first from the first. The 2+ case is expressed
// through addImpl/negate exactly so it carries the same float/int
// promotion quirk as (+ ...).
func subtract(ctx *NativeFunctionContext) (ValBuilder, error) {
	switch ctx.ArgCount() {
	case 0:
		return ValBuilder{}, newArityError("-", 1, 0)
	case 1:
		first, _ := ctx.Arg(0)
		v, err := negate(ctx, "-", first)
		if err != nil {
			return ValBuilder{}, err
		}
		return ctx.NewValue(v), nil
	default:
		args := ctx.Args()
		first := args[0]
		restSum, err := addImpl(ctx, "-", args[1:])
		if err != nil {
			return ValBuilder{}, err
		}
		negatedRest, err := negate(ctx, "-", restSum)
		if err != nil {
			return ValBuilder{}, err
		}
		ans, err := addImpl(ctx, "-", []Value{first, negatedRest})
		if err != nil {
			return ValBuilder{}, err
		}
		return ctx.NewValue(ans), nil
	}
}

// lessTwo compares a and b, promoting to float comparison if either
// side is a float. When one side is not a number, the error reports
// whichever side is not a number; if neither is, it reports b (the
// later argument), matching the evaluator's fallthrough order.
func lessTwo(ctx *NativeFunctionContext, a, b Value) (bool, error) {
	ai, aIsInt := a.TryInt()
	af, aIsFloat := a.TryFloat()
	bi, bIsInt := b.TryInt()
	bf, bIsFloat := b.TryFloat()
	switch {
	case aIsInt && bIsInt:
		return ai < bi, nil
	case aIsFloat && bIsFloat:
		return af < bf, nil
	case aIsFloat && bIsInt:
		return af < float64(bi), nil
	case aIsInt && bIsFloat:
		return float64(ai) < bf, nil
	}
	if bIsInt || bIsFloat {
		return false, newTypeError("<", numberOrFloat, a.TypeName(), FormatValueQuoted(ctx.VM(), a))
	}
	return false, newTypeError("<", numberOrFloat, b.TypeName(), FormatValueQuoted(ctx.VM(), b))
}

// less implements the variadic (< a b c ...) builtin: true iff the
// arguments are strictly increasing. Fewer than two arguments is
// vacuously true.
func less(ctx *NativeFunctionContext) (ValBuilder, error) {
	args := ctx.Args()
	for i := 0; i+1 < len(args); i++ {
		ok, err := lessTwo(ctx, args[i], args[i+1])
		if err != nil {
			return ValBuilder{}, err
		}
		if !ok {
			return ctx.NewValue(NewBoolValue(false)), nil
		}
	}
	return ctx.NewValue(NewBoolValue(true)), nil
}
