package spore

// maxCallDepth bounds how many nested calls StackFrameManager will
// hold before a VmErrMaximumFunctionCallDepth error is raised. 64 is enough
// for any program that isn't relying on unbounded recursion, which
// Spore has no tail-call optimization to support anyway.
const maxCallDepth = 64

// StackFrame tracks where the VM is within one function call: which
// bytecode it is executing, the next instruction to run, and where
// this call's locals begin on the operand stack.
type StackFrame struct {
	bytecodeID     Handle[*ByteCode]
	instructions   []Instruction
	instructionIdx int
	stackStart     int
}

// newStackFrame creates a frame ready to begin executing bytecode at
// instruction 0.
func newStackFrame(bytecodeID Handle[*ByteCode], bytecode *ByteCode, stackStart int) StackFrame {
	return StackFrame{
		bytecodeID:   bytecodeID,
		instructions: bytecode.Instructions,
		stackStart:   stackStart,
	}
}

// hasValidFunctionCall reports whether the frame belongs to a real
// call rather than the sentinel frame installed before any call has
// been made (vmID 0, which no real Vm ever assigns).
func (f StackFrame) hasValidFunctionCall() bool {
	return f.bytecodeID.vmID != 0
}

func (f StackFrame) bytecode(vm *Vm) *ByteCode {
	bc, _ := vm.objects.getBytecode(f.bytecodeID)
	return bc
}

// previousInstructionSource returns the source span of the
// instruction that was just executed, for annotating errors.
func (f StackFrame) previousInstructionSource(vm *Vm) (SourceSpan, bool) {
	idx := f.instructionIdx - 1
	if idx < 0 {
		idx = 0
	}
	bc, ok := vm.objects.getBytecode(f.bytecodeID)
	if !ok || bc.Source == "" {
		return SourceSpan{}, false
	}
	if idx >= len(bc.InstructionSrc) {
		return SourceSpan{}, false
	}
	return bc.InstructionSrc[idx].WithSource(bc.Source), true
}

// StackFrameManager holds the currently-executing frame plus the
// chain of callers beneath it.
type StackFrameManager struct {
	current  StackFrame
	previous []StackFrame
}

func newStackFrameManager() *StackFrameManager {
	return &StackFrameManager{previous: make([]StackFrame, 0, maxCallDepth)}
}

func (m *StackFrameManager) reset() {
	m.resetWithStackFrame(StackFrame{})
}

func (m *StackFrameManager) resetWithStackFrame(frame StackFrame) {
	m.current = frame
	m.previous = m.previous[:0]
}

// atCapacity reports whether pushing another frame would exceed
// maxCallDepth.
func (m *StackFrameManager) atCapacity() bool {
	return len(m.previous) >= maxCallDepth
}

func (m *StackFrameManager) push(frame StackFrame) {
	m.previous = append(m.previous, m.current)
	m.current = frame
}

func (m *StackFrameManager) pop() {
	n := len(m.previous)
	m.current = m.previous[n-1]
	m.previous = m.previous[:n-1]
}

// forEach visits every live frame, outermost first.
func (m *StackFrameManager) forEach(fn func(StackFrame)) {
	for _, f := range m.previous {
		fn(f)
	}
	fn(m.current)
}

func (m *StackFrameManager) stackTraceDepth() int {
	return len(m.previous) + 1
}
