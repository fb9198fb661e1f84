package spore

import "log"

// keepReachableSet reference-counts values a host has asked the GC to
// never collect, regardless of whether anything in the VM still
// points to them.
//
// Unlike the implementation this is based on, struct handles
// contribute to iter's root set. The original tracked struct
// reference counts but never yielded them as GC roots, so a struct
// pinned with keepReachableValue could still be collected out from under
// the caller. That omission is fixed here.
type keepReachableSet struct {
	strings      map[Handle[string]]int
	mutableBoxes map[Handle[Value]]int
	lists        map[Handle[[]Value]]int
	structs      map[Handle[*StructVal]]int
	bytecodes    map[Handle[*ByteCode]]int
	natives      map[Handle[NativeFunction]]int
	customs      map[Handle[*CustomVal]]int
}

func newKeepReachableSet() *keepReachableSet {
	return &keepReachableSet{
		strings:      make(map[Handle[string]]int),
		mutableBoxes: make(map[Handle[Value]]int),
		lists:        make(map[Handle[[]Value]]int),
		structs:      make(map[Handle[*StructVal]]int),
		bytecodes:    make(map[Handle[*ByteCode]]int),
		natives:      make(map[Handle[NativeFunction]]int),
		customs:      make(map[Handle[*CustomVal]]int),
	}
}

// iter calls fn for every value currently pinned.
func (k *keepReachableSet) iter(fn func(Value)) {
	for h := range k.strings {
		fn(valueFromHandle[string](ValueKindString, h))
	}
	for h := range k.mutableBoxes {
		fn(valueFromHandle[Value](ValueKindMutableBox, h))
	}
	for h := range k.lists {
		fn(valueFromHandle[[]Value](ValueKindList, h))
	}
	for h := range k.structs {
		fn(valueFromHandle[*StructVal](ValueKindStruct, h))
	}
	for h := range k.bytecodes {
		fn(valueFromHandle[*ByteCode](ValueKindByteCodeFunction, h))
	}
	for h := range k.natives {
		fn(valueFromHandle[NativeFunction](ValueKindNativeFunction, h))
	}
	for h := range k.customs {
		fn(valueFromHandle[*CustomVal](ValueKindCustom, h))
	}
}

// insert pins val, incrementing its reference count. Values that are
// not a garbage-collected kind are ignored.
func (k *keepReachableSet) insert(val Value) {
	switch val.kind {
	case ValueKindString:
		k.strings[handleFromValue[string](val)]++
	case ValueKindMutableBox:
		k.mutableBoxes[handleFromValue[Value](val)]++
	case ValueKindList:
		k.lists[handleFromValue[[]Value](val)]++
	case ValueKindStruct:
		k.structs[handleFromValue[*StructVal](val)]++
	case ValueKindByteCodeFunction:
		k.bytecodes[handleFromValue[*ByteCode](val)]++
	case ValueKindNativeFunction:
		k.natives[handleFromValue[NativeFunction](val)]++
	case ValueKindCustom:
		k.customs[handleFromValue[*CustomVal](val)]++
	default:
		if isGarbageCollected(val) {
			panic("spore: unreachable value kind in keepReachableSet.insert")
		}
	}
}

// remove unpins val, decrementing its reference count and evicting it
// at zero.
func (k *keepReachableSet) remove(val Value) {
	switch val.kind {
	case ValueKindString:
		decrementOrWarn(k.strings, handleFromValue[string](val))
	case ValueKindMutableBox:
		decrementOrWarn(k.mutableBoxes, handleFromValue[Value](val))
	case ValueKindList:
		decrementOrWarn(k.lists, handleFromValue[[]Value](val))
	case ValueKindStruct:
		decrementOrWarn(k.structs, handleFromValue[*StructVal](val))
	case ValueKindByteCodeFunction:
		decrementOrWarn(k.bytecodes, handleFromValue[*ByteCode](val))
	case ValueKindNativeFunction:
		decrementOrWarn(k.natives, handleFromValue[NativeFunction](val))
	case ValueKindCustom:
		decrementOrWarn(k.customs, handleFromValue[*CustomVal](val))
	default:
		if isGarbageCollected(val) {
			panic("spore: unreachable value kind in keepReachableSet.remove")
		}
	}
}

func decrementOrWarn[T comparable](m map[T]int, k T) {
	n, ok := m[k]
	if !ok {
		log.Printf("spore: tried to remove non-existent value %v from keep-reachable set", k)
		return
	}
	if n <= 1 {
		delete(m, k)
		return
	}
	m[k] = n - 1
}

// isGarbageCollected reports whether v's kind is managed by the GC.
func isGarbageCollected(v Value) bool {
	switch v.kind {
	case ValueKindString, ValueKindMutableBox, ValueKindList, ValueKindStruct, ValueKindByteCodeFunction, ValueKindNativeFunction, ValueKindCustom:
		return true
	default:
		return false
	}
}
