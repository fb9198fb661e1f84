package spore

// StructVal is a struct value: a map from field name to value.
type StructVal struct {
	fields map[Symbol]Value
}

// NewStructVal creates an empty struct with room for cap fields.
func NewStructVal(cap int) *StructVal {
	return &StructVal{fields: make(map[Symbol]Value, cap)}
}

// Len returns the number of fields.
func (s *StructVal) Len() int {
	return len(s.fields)
}

// Set assigns the value of symbol to value.
func (s *StructVal) Set(symbol Symbol, value Value) {
	s.fields[symbol] = value
}

// Get returns the value of symbol, or the zero Value, false if unset.
func (s *StructVal) Get(symbol Symbol) (Value, bool) {
	v, ok := s.fields[symbol]
	return v, ok
}

// ForEach calls fn for every field in s. Iteration order is
// unspecified, matching the backing map.
func (s *StructVal) ForEach(fn func(Symbol, Value)) {
	for k, v := range s.fields {
		fn(k, v)
	}
}
