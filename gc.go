package spore

import "log"

// MemoryManager owns every garbage-collected object store for one Vm,
// plus its symbol table and pin set.
type MemoryManager struct {
	vmID          uint16
	symbols       *symbolInterner
	strings       *objectStore[string]
	mutableBoxes  *objectStore[Value]
	lists         *objectStore[[]Value]
	structs       *objectStore[*StructVal]
	bytecodes     *objectStore[*ByteCode]
	natives       *objectStore[NativeFunction]
	customs       *objectStore[*CustomVal]
	keepReachable *keepReachableSet
	reachableColor Color
}

func newMemoryManager(vmID uint16) *MemoryManager {
	return &MemoryManager{
		vmID:          vmID,
		symbols:       newSymbolInterner(vmID),
		strings:       newObjectStore[string](vmID),
		mutableBoxes:  newObjectStore[Value](vmID),
		lists:         newObjectStore[[]Value](vmID),
		structs:       newObjectStore[*StructVal](vmID),
		bytecodes:     newObjectStore[*ByteCode](vmID),
		natives:       newObjectStore[NativeFunction](vmID),
		customs:       newObjectStore[*CustomVal](vmID),
		keepReachable: newKeepReachableSet(),
	}
}

func (m *MemoryManager) symbolToStr(s Symbol) (string, bool) {
	return m.symbols.symbolToStr(s)
}

func (m *MemoryManager) getSymbol(s string) (Symbol, bool) {
	return m.symbols.getSymbol(s)
}

func (m *MemoryManager) getOrCreateSymbol(s string) Symbol {
	return m.symbols.getOrCreateSymbol(s)
}

// keepReachableValue pins value so the GC will never collect it,
// regardless of whether the VM still references it.
func (m *MemoryManager) keepReachableValue(value Value) {
	m.keepReachable.insert(value)
}

// allowUnreachable undoes a prior keepReachableValue call.
func (m *MemoryManager) allowUnreachable(value Value) {
	m.keepReachable.remove(value)
}

func (m *MemoryManager) getStr(id Handle[string]) string {
	s, _ := m.strings.get(id)
	return s
}

func (m *MemoryManager) insertString(s string) Handle[string] {
	return m.strings.insert(s, m.reachableColor.Other())
}

func (m *MemoryManager) getMutableBox(id Handle[Value]) Value {
	v, _ := m.mutableBoxes.get(id)
	return v
}

func (m *MemoryManager) setMutableBox(id Handle[Value], v Value) Value {
	slot := m.mutableBoxes.getMut(id)
	old := *slot
	*slot = v
	return old
}

// insertMutableBox stores v in a new box, colored as the current
// unreachable color so the next mark pass recurses into it.
func (m *MemoryManager) insertMutableBox(v Value) Handle[Value] {
	return m.mutableBoxes.insert(v, m.reachableColor.Other())
}

var emptyList []Value

func (m *MemoryManager) getList(id Handle[[]Value]) []Value {
	list, ok := m.lists.get(id)
	if !ok {
		return emptyList
	}
	return list
}

func (m *MemoryManager) insertList(list []Value) Handle[[]Value] {
	return m.lists.insert(list, m.reachableColor.Other())
}

func (m *MemoryManager) getStruct(id Handle[*StructVal]) *StructVal {
	s, _ := m.structs.get(id)
	return s
}

func (m *MemoryManager) insertStruct(s *StructVal) Handle[*StructVal] {
	return m.structs.insert(s, m.reachableColor.Other())
}

func (m *MemoryManager) getBytecode(id Handle[*ByteCode]) (*ByteCode, bool) {
	bc, ok := m.bytecodes.get(id)
	if !ok {
		log.Printf("spore: bytecode %v not found", id)
	}
	return bc, ok
}

func (m *MemoryManager) insertBytecode(bc *ByteCode) Handle[*ByteCode] {
	return m.bytecodes.insert(bc, m.reachableColor.Other())
}

func (m *MemoryManager) getNativeFunction(id Handle[NativeFunction]) (NativeFunction, bool) {
	return m.natives.get(id)
}

func (m *MemoryManager) insertNativeFunction(fn NativeFunction) Handle[NativeFunction] {
	return m.natives.insert(fn, m.reachableColor.Other())
}

func (m *MemoryManager) getCustom(id Handle[*CustomVal]) *CustomVal {
	c, _ := m.customs.get(id)
	return c
}

func (m *MemoryManager) insertCustom(c *CustomVal) Handle[*CustomVal] {
	return m.customs.insert(c, m.reachableColor.Other())
}

// runGC performs one full mark/sweep/flip cycle. roots must contain
// every value currently reachable from outside the heap: the operand
// stack, every call frame's locals, and the global bindings table.
func (m *MemoryManager) runGC(roots []Value) {
	m.mark(roots)
	m.sweep()
	m.reachableColor = m.reachableColor.Other()
}

func (m *MemoryManager) mark(roots []Value) {
	queue := append([]Value{}, roots...)
	m.keepReachable.iter(func(v Value) {
		queue = append(queue, v)
	})

	var next []Value
	for len(queue) > 0 {
		for _, v := range queue {
			m.markOne(v, &next)
		}
		queue, next = next, queue[:0]
	}
}

func (m *MemoryManager) markOne(v Value, children *[]Value) {
	addChild := func(c Value) {
		if isGarbageCollected(c) {
			*children = append(*children, c)
		}
	}
	switch v.kind {
	case ValueKindString:
		m.strings.setColor(handleFromValue[string](v), m.reachableColor)
	case ValueKindMutableBox:
		if unboxed := m.mutableBoxes.setColor(handleFromValue[Value](v), m.reachableColor); unboxed != nil {
			addChild(*unboxed)
		}
	case ValueKindList:
		if list := m.lists.setColor(handleFromValue[[]Value](v), m.reachableColor); list != nil {
			for _, child := range *list {
				addChild(child)
			}
		}
	case ValueKindStruct:
		if s := m.structs.setColor(handleFromValue[*StructVal](v), m.reachableColor); s != nil {
			(*s).ForEach(func(_ Symbol, child Value) {
				addChild(child)
			})
		}
	case ValueKindByteCodeFunction:
		if bc := m.bytecodes.setColor(handleFromValue[*ByteCode](v), m.reachableColor); bc != nil {
			(*bc).Values(addChild)
		}
	case ValueKindNativeFunction:
		m.natives.setColor(handleFromValue[NativeFunction](v), m.reachableColor)
	case ValueKindCustom:
		m.customs.setColor(handleFromValue[*CustomVal](v), m.reachableColor)
	}
}

// sweep reclaims every object still colored with the unreachable
// color. Unlike the implementation this is based on, the strings
// store is swept too: the original never called
// strings.remove_all_with_color, so interned strings accumulated for
// the lifetime of the Vm. That omission is fixed here.
func (m *MemoryManager) sweep() {
	unreachable := m.reachableColor.Other()
	m.strings.removeAllWithColor(unreachable)
	m.mutableBoxes.removeAllWithColor(unreachable)
	m.lists.removeAllWithColor(unreachable)
	m.structs.removeAllWithColor(unreachable)
	m.bytecodes.removeAllWithColor(unreachable)
	m.natives.removeAllWithColor(unreachable)
	m.customs.removeAllWithColor(unreachable)
}
