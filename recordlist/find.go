package recordlist

// Find returns the index in the view of the first record whose named field
// equals key, or NotFound. An unknown field or nil key is simply not found.
func (list *List[T]) Find(name string, key any) int {

	if key == nil {
		return NotFound
	}

	acc, err := list.registry.Resolve(name)
	if err != nil {
		return NotFound
	}

	for i, ent := range list.view {
		if acc.Equal(acc.Value(ent.rec), key) {
			return i
		}
	}
	return NotFound
}
