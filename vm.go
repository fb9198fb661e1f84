package spore

import (
	"log"
	"sync/atomic"
)

// ISSUE_LINK would point bug reports somewhere; Spore logs instead of
// directing users anywhere specific.

var vmIDCounter atomic.Uint32

// nextVmID returns a VM identifier that is never zero, so the zero
// value of a Handle never aliases a real VM.
func nextVmID() uint16 {
	for {
		id := uint16(vmIDCounter.Add(1))
		if id != 0 {
			return id
		}
	}
}

// Vm is a single instance of the Spore interpreter: its operand
// stack, global bindings, call-frame stack, and garbage-collected
// heap.
type Vm struct {
	id           uint16
	stack        []Value
	globals      map[Symbol]Value
	frames       *StackFrameManager
	objects      *MemoryManager
	settings     Settings
	importsInFly map[string]bool
}

// NewVm creates a Vm configured with settings and every builtin
// function registered.
func NewVm(settings Settings) *Vm {
	id := nextVmID()
	vm := &Vm{
		id:           id,
		stack:        make([]Value, 0, 4096),
		globals:      make(map[Symbol]Value),
		frames:       newStackFrameManager(),
		objects:      newMemoryManager(id),
		settings:     settings,
		importsInFly: make(map[string]bool),
	}
	registerBuiltins(vm)
	log.Printf("spore: initialized VM %d with %+v", id, settings)
	return vm
}

// NewDefaultVm creates a Vm with DefaultSettings.
func NewDefaultVm() *Vm {
	return NewVm(DefaultSettings())
}

// WithNativeFunction registers fn under name and returns vm, so
// several registrations can be chained.
func (vm *Vm) WithNativeFunction(name string, fn NativeFunction) *Vm {
	vm.registerValue(name, NewNativeFunctionValue(vm, fn))
	return vm
}

// WithCustomValue registers obj under name as a globally-accessible
// custom value and returns vm.
func (vm *Vm) WithCustomValue(name string, obj CustomType) *Vm {
	id := vm.objects.insertCustom(newCustomVal(obj))
	vm.registerValue(name, valueFromHandle[*CustomVal](ValueKindCustom, id))
	return vm
}

func (vm *Vm) registerValue(name string, val Value) {
	sym := vm.objects.getOrCreateSymbol(name)
	vm.globals[sym] = val
}

// ValByName returns the current global value bound to name, if any.
func (vm *Vm) ValByName(name string) (Value, bool) {
	sym, ok := vm.objects.getSymbol(name)
	if !ok {
		return Value{}, false
	}
	val, ok := vm.globals[sym]
	return val, ok
}

// GetSymbol looks up an already-interned symbol by name.
func (vm *Vm) GetSymbol(name string) (Symbol, bool) {
	return vm.objects.getSymbol(name)
}

// GetOrCreateSymbol interns name if it is not already interned.
func (vm *Vm) GetOrCreateSymbol(name string) Symbol {
	return vm.objects.getOrCreateSymbol(name)
}

// SymbolToStr returns the string a symbol was interned from.
func (vm *Vm) SymbolToStr(sym Symbol) (string, bool) {
	return vm.objects.symbolToStr(sym)
}

// Format renders v for display the way the REPL would print it.
func (vm *Vm) Format(v Value) string {
	return FormatValue(vm, v)
}

// EvalString compiles and evaluates source as a top-level module form
// list, returning the value of the last expression.
func (vm *Vm) EvalString(source string) (Value, error) {
	bc, err := Compile(vm, source)
	if err != nil {
		if ce, ok := err.(CompileError); ok {
			return Value{}, newCompileVmError(ce)
		}
		return Value{}, err
	}
	bcID := vm.objects.insertBytecode(bc)
	bc, _ = vm.objects.getBytecode(bcID)

	vm.stack = vm.stack[:0]
	for i := 0; i < bc.LocalBindings; i++ {
		vm.stack = append(vm.stack, Void)
	}
	vm.frames.resetWithStackFrame(newStackFrame(bcID, bc, 0))
	vm.runGC()
	return vm.runAll()
}

// EvalFunctionByName calls the global function bound to name with
// args, returning its result.
func (vm *Vm) EvalFunctionByName(name string, args []Value) (Value, error) {
	sym, ok := vm.objects.getSymbol(name)
	if !ok {
		return Value{}, newSymbolNotDefinedError(name)
	}
	fn, ok := vm.globals[sym]
	if !ok {
		return Value{}, newSymbolNotDefinedError(name)
	}

	vm.frames.reset()
	vm.stack = vm.stack[:0]
	vm.stack = append(vm.stack, fn)
	vm.stack = append(vm.stack, args...)
	vm.runGC()

	n := len(vm.stack)
	if err := vm.executeEval(n); err != nil {
		return Value{}, vm.annotateSrc(err)
	}
	return vm.runAll()
}

func (vm *Vm) annotateSrc(err error) error {
	vmErr, ok := err.(VmError)
	if !ok {
		return err
	}
	var annotated VmError
	found := false
	vm.frames.forEach(func(f StackFrame) {
		if found {
			return
		}
		if src, ok := f.previousInstructionSource(vm); ok {
			annotated = vmErr.WithSrc(src)
			found = true
		}
	})
	if found {
		return annotated
	}
	return vmErr
}

// runAll drives the instruction loop to completion: either a value is
// produced, or an error occurs.
func (vm *Vm) runAll() (Value, error) {
	for {
		val, done, err := vm.runNext()
		if err != nil {
			return Value{}, vm.annotateSrc(err)
		}
		if done {
			return val, nil
		}
	}
}

// runNext executes the next instruction in the current frame. done is
// true once a value has been returned to the caller of the whole
// evaluation (the outermost frame returned).
func (vm *Vm) runNext() (Value, bool, error) {
	frame := &vm.frames.current
	var instr Instruction
	if frame.instructionIdx < len(frame.instructions) {
		instr = frame.instructions[frame.instructionIdx]
	} else {
		instr = Instruction{Op: OpReturn}
	}
	frame.instructionIdx++

	switch instr.Op {
	case OpPushConst:
		vm.stack = append(vm.stack, instr.Const)
	case OpPushCurrentFunction:
		vm.stack = append(vm.stack, valueFromHandle[*ByteCode](ValueKindByteCodeFunction, frame.bytecodeID))
	case OpPop:
		vm.stack = vm.stack[:len(vm.stack)-instr.N]
	case OpGetArg:
		vm.stack = append(vm.stack, vm.stack[frame.stackStart+instr.N])
	case OpBindArg:
		val := vm.stack[len(vm.stack)-1]
		vm.stack = vm.stack[:len(vm.stack)-1]
		vm.stack[frame.stackStart+instr.N] = val
	case OpDeref:
		val, ok := vm.globals[instr.Sym]
		if !ok {
			name, _ := vm.objects.symbolToStr(instr.Sym)
			if name == "" {
				name = "*symbol-not-registered*"
			}
			return Value{}, false, newSymbolNotDefinedError(name)
		}
		vm.stack = append(vm.stack, val)
	case OpDefine:
		val := vm.stack[len(vm.stack)-1]
		vm.stack = vm.stack[:len(vm.stack)-1]
		vm.globals[instr.Sym] = val
	case OpEval:
		if err := vm.executeEval(instr.N); err != nil {
			return Value{}, false, err
		}
	case OpEvalNative:
		if err := vm.executeEvalNative(instr.NativeFn, instr.N); err != nil {
			return Value{}, false, err
		}
	case OpJumpIf:
		val := vm.stack[len(vm.stack)-1]
		vm.stack = vm.stack[:len(vm.stack)-1]
		if val.IsTruthy() {
			vm.frames.current.instructionIdx += instr.N
		}
	case OpJump:
		vm.frames.current.instructionIdx += instr.N
	case OpReturn:
		val, done := vm.executeReturn()
		return val, done, nil
	}
	return Value{}, false, nil
}

func (vm *Vm) executeEvalNative(fn NativeFunction, argCount int) error {
	stackStart := len(vm.stack) - argCount
	vm.frames.push(newStackFrame(Handle[*ByteCode]{}, &ByteCode{}, stackStart))
	ctx := newNativeFunctionContext(vm, stackStart)
	builder, err := fn(ctx)
	if err != nil {
		vm.frames.pop()
		return err
	}
	val := builder.Value()
	if argCount == 0 {
		vm.stack = append(vm.stack, val)
	} else {
		vm.stack = vm.stack[:stackStart+1]
		vm.stack[stackStart] = val
	}
	vm.frames.pop()
	return nil
}

// executeEval evaluates the top n values of the stack: the deepest is
// the function, the rest its arguments.
func (vm *Vm) executeEval(n int) error {
	if n == 0 {
		return VmError{Kind: VmErrInvalidVmState}
	}
	functionIdx := len(vm.stack) - n
	if functionIdx < 0 {
		return VmError{Kind: VmErrInvalidVmState}
	}
	stackStart := functionIdx + 1
	funcVal := vm.stack[functionIdx]

	switch funcVal.Kind() {
	case ValueKindNativeFunction:
		fn, _ := funcVal.TryNativeFunction(vm)
		vm.frames.push(newStackFrame(Handle[*ByteCode]{}, &ByteCode{}, stackStart))
		ctx := newNativeFunctionContext(vm, stackStart)
		builder, err := fn(ctx)
		if err != nil {
			vm.frames.pop()
			return err
		}
		vm.stack[functionIdx] = builder.Value()
		vm.stack = vm.stack[:stackStart]
		vm.frames.pop()
		return nil
	case ValueKindByteCodeFunction:
		bcID := handleFromValue[*ByteCode](funcVal)
		bc, ok := vm.objects.getBytecode(bcID)
		if !ok {
			return VmError{Kind: VmErrInvalidVmState}
		}
		argCount := n - 1
		if bc.ArgCount != argCount {
			return VmError{Kind: VmErrArityError, Function: bc.Name, ExpectedArgs: bc.ArgCount, ActualArgs: argCount}
		}
		if vm.frames.atCapacity() {
			return vm.executeCallStackLimitReached()
		}
		for i := 0; i < bc.LocalBindings; i++ {
			vm.stack = append(vm.stack, Void)
		}
		vm.frames.push(newStackFrame(bcID, bc, stackStart))
		return nil
	default:
		return newTypeError("function invocation", FunctionTypeName, funcVal.TypeName(), vm.Format(funcVal))
	}
}

// StackTrace returns the name of the function running in every live
// call frame, outermost first.
func (vm *Vm) StackTrace() []string {
	depth := vm.frames.stackTraceDepth()
	trace := make([]string, 0, depth)
	vm.frames.forEach(func(f StackFrame) {
		if f.hasValidFunctionCall() {
			bc := f.bytecode(vm)
			name := ""
			if bc != nil {
				name = bc.Name
			}
			trace = append(trace, name)
		} else {
			trace = append(trace, "native-call")
		}
	})
	return trace
}

func (vm *Vm) executeCallStackLimitReached() error {
	callStack := vm.StackTrace()
	return newMaxCallDepthError(len(callStack), callStack)
}

// executeReturn pops the current frame's result back to the caller.
// done is true once the outermost frame has returned.
func (vm *Vm) executeReturn() (Value, bool) {
	var retVal Value
	if vm.frames.current.stackStart < len(vm.stack) {
		retVal = vm.stack[len(vm.stack)-1]
		vm.stack = vm.stack[:len(vm.stack)-1]
	} else {
		retVal = Void
	}

	n := len(vm.frames.previous)
	if n == 0 {
		vm.stack = vm.stack[:0]
		vm.frames.current = StackFrame{}
		return retVal, true
	}

	caller := vm.frames.previous[n-1]
	vm.frames.previous = vm.frames.previous[:n-1]
	vm.stack = vm.stack[:vm.frames.current.stackStart]
	if caller.hasValidFunctionCall() {
		vm.stack[len(vm.stack)-1] = retVal
		vm.frames.current = caller
		return Value{}, false
	}
	vm.frames.current = caller
	return retVal, true
}

// runGC collects every value reachable from the stack, globals, and
// live call frames, then reclaims everything else.
func (vm *Vm) runGC() {
	var roots []Value
	for _, val := range vm.stack {
		if isGarbageCollected(val) {
			roots = append(roots, val)
		}
	}
	for _, val := range vm.globals {
		if isGarbageCollected(val) {
			roots = append(roots, val)
		}
	}
	vm.frames.forEach(func(f StackFrame) {
		if !f.hasValidFunctionCall() {
			return
		}
		bc := f.bytecode(vm)
		if bc == nil {
			return
		}
		bc.Values(func(c Value) {
			if isGarbageCollected(c) {
				roots = append(roots, c)
			}
		})
		roots = append(roots, valueFromHandle[*ByteCode](ValueKindByteCodeFunction, f.bytecodeID))
	})
	vm.objects.runGC(roots)
}
