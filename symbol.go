package spore

// Symbol is an interned identifier scoped to a single Vm. Two symbols
// compare equal only if they were interned by the same Vm and name the
// same string.
type Symbol struct {
	vmID uint16
	idx  uint32
}

// symbolInterner assigns a dense, stable index to every distinct
// string interned within one Vm.
type symbolInterner struct {
	vmID          uint16
	strings       []string
	stringToIndex map[string]uint32
}

func newSymbolInterner(vmID uint16) *symbolInterner {
	return &symbolInterner{
		vmID:          vmID,
		stringToIndex: make(map[string]uint32),
	}
}

// symbolToStr returns the string id names, or "", false if id was not
// interned by this Vm.
func (si *symbolInterner) symbolToStr(id Symbol) (string, bool) {
	if id.vmID != si.vmID {
		return "", false
	}
	if int(id.idx) >= len(si.strings) {
		return "", false
	}
	return si.strings[id.idx], true
}

// getSymbol returns the Symbol for s if it has already been interned.
func (si *symbolInterner) getSymbol(s string) (Symbol, bool) {
	idx, ok := si.stringToIndex[s]
	if !ok {
		return Symbol{}, false
	}
	return Symbol{vmID: si.vmID, idx: idx}, true
}

// getOrCreateSymbol interns s if necessary and returns its Symbol.
func (si *symbolInterner) getOrCreateSymbol(s string) Symbol {
	if idx, ok := si.stringToIndex[s]; ok {
		return Symbol{vmID: si.vmID, idx: idx}
	}
	idx := uint32(len(si.strings))
	si.strings = append(si.strings, s)
	si.stringToIndex[s] = idx
	return Symbol{vmID: si.vmID, idx: idx}
}
