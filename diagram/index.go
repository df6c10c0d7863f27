package diagram

// Index maps shape ids to shapes. Bindings hold ids rather than pointers,
// so a deleted shape simply fails to resolve.
type Index map[string]Shape

// NewIndex builds an index over shapes. Later duplicates win.
func NewIndex(shapes []Shape) Index {
	idx := make(Index, len(shapes))
	for _, s := range shapes {
		idx[s.ID] = s
	}
	return idx
}

// Lookup returns the shape with the given id.
func (idx Index) Lookup(id string) (Shape, bool) {
	if id == "" {
		return Shape{}, false
	}
	s, ok := idx[id]
	return s, ok
}

// Resolve returns the shape referenced by b, if both exist.
func (idx Index) Resolve(b *Binding) (Shape, bool) {
	if b == nil {
		return Shape{}, false
	}
	return idx.Lookup(b.ElementID)
}
