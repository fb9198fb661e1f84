package spore

// Handle identifies an object of type T stored in one Vm's object
// store. It is a triple of (vmID, generation, index): index locates
// the slab slot, generation detects reuse of that slot after a
// garbage collection, and vmID prevents a handle minted by one Vm
// from being mistaken for one minted by another.
//
// Unlike the original implementation this is based on, equality here
// always compares the full triple. Comparing only the index lets a
// stale handle into a freed-and-reused slot compare equal to the
// handle for the new occupant; that divergence between equality and
// store lookup was judged a defect, not a feature, so Go's Handle
// equality and objectStore.get agree.
type Handle[T any] struct {
	vmID       uint16
	generation uint16
	index      uint32
}

func (h Handle[T]) asIndex() int {
	return int(h.index)
}
