package spore

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders v for display the way the REPL prints a result:
// strings are shown raw, without surrounding quotes.
func FormatValue(vm *Vm, v Value) string {
	return formatValue(vm, v, false)
}

// FormatValueQuoted renders v the way it appears nested inside a
// list, struct, or box: strings are wrapped and escaped.
func FormatValueQuoted(vm *Vm, v Value) string {
	return formatValue(vm, v, true)
}

func formatValue(vm *Vm, v Value, quoteStrings bool) string {
	switch v.Kind() {
	case ValueKindVoid:
		return "<void>"
	case ValueKindBool:
		b, _ := v.TryBool()
		if b {
			return "true"
		}
		return "false"
	case ValueKindInt:
		i, _ := v.TryInt()
		return strconv.FormatInt(i, 10)
	case ValueKindFloat:
		f, _ := v.TryFloat()
		return strconv.FormatFloat(f, 'f', -1, 64)
	case ValueKindSymbol:
		sym, _ := v.TrySymbol()
		name, ok := vm.objects.symbolToStr(sym)
		if !ok {
			name = "*corrupt-symbol*"
		}
		return "'" + name
	case ValueKindString:
		s := vm.objects.getStr(handleFromValue[string](v))
		if quoteStrings {
			return fmt.Sprintf("%q", s)
		}
		return s
	case ValueKindMutableBox:
		inner := vm.objects.getMutableBox(handleFromValue[Value](v))
		return "box<" + formatValue(vm, inner, true) + ">"
	case ValueKindList:
		list := vm.objects.getList(handleFromValue[[]Value](v))
		var b strings.Builder
		b.WriteString("(")
		for idx, elem := range list {
			if idx > 0 {
				b.WriteString(" ")
			}
			b.WriteString(formatValue(vm, elem, true))
		}
		b.WriteString(")")
		return b.String()
	case ValueKindStruct:
		s := vm.objects.getStruct(handleFromValue[*StructVal](v))
		var b strings.Builder
		b.WriteString("(struct")
		if s != nil {
			s.ForEach(func(name Symbol, val Value) {
				nameStr, ok := vm.objects.symbolToStr(name)
				if !ok {
					nameStr = "*unknown-symbol-name*"
				}
				fmt.Fprintf(&b, " '%s %s", nameStr, formatValue(vm, val, true))
			})
		}
		b.WriteString(")")
		return b.String()
	case ValueKindByteCodeFunction:
		bc, _ := vm.objects.getBytecode(handleFromValue[*ByteCode](v))
		name := "_"
		if bc != nil && bc.Name != "" {
			name = bc.Name
		}
		return "<function " + name + ">"
	case ValueKindNativeFunction:
		return "<native-function>"
	case ValueKindCustom:
		c := vm.objects.getCustom(handleFromValue[*CustomVal](v))
		if c == nil {
			return "<custom-value>"
		}
		return c.String()
	default:
		return "<unknown>"
	}
}
