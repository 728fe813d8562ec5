package recordlist

import (
	"slices"

	"github.com/pkg/errors"

	nt "combosearch/entity"
	"combosearch/field"
)

type sortState[T any] struct {
	acc    field.Accessor[T]
	dir    nt.Direction
	active bool
}

// IsSorted reports whether a sort is active.
func (list *List[T]) IsSorted() bool {
	return list.sort.active
}

// SortField returns the name of the sort field, empty when not sorted.
func (list *List[T]) SortField() string {

	if !list.sort.active {
		return ""
	}
	return list.sort.acc.Name()
}

// SortDirection returns the direction of the active or most recent sort.
func (list *List[T]) SortDirection() nt.Direction {
	return list.sort.dir
}

// SupportsAdvancedSorting is false, only one sort field at a time.
func (list *List[T]) SupportsAdvancedSorting() bool {
	return false
}

// ApplySort stable sorts the view by the named field and fires one Reset.
// Records with equal keys keep their relative order in either direction.
func (list *List[T]) ApplySort(name string, dir nt.Direction) (err error) {

	acc, err := list.registry.Resolve(name)
	if err != nil {
		return
	}

	if !acc.Comparable() {
		err = errors.Wrapf(nt.ErrNotComparable, "cannot sort by %q, %s values have no order", name, acc.Kind())
		return
	}

	list.sort = sortState[T]{
		acc:    acc,
		dir:    dir,
		active: true,
	}
	list.resort()

	list.logger.Info(list.ctx, "sort applied", "field", name, "direction", dir.String())
	return
}

// ApplySorts is multi-field sort, which is not supported.
func (list *List[T]) ApplySorts(sorts []nt.Sort) (err error) {

	err = errors.Wrapf(nt.ErrNotSupported, "cannot sort by %d fields", len(sorts))
	return
}

// RemoveSort restores the unsorted order, filtered if a filter is active,
// and fires one Reset. It does nothing unless sorted and non-empty.
func (list *List[T]) RemoveSort() {

	if !list.sort.active || len(list.original) == 0 {
		return
	}

	list.sort.active = false
	list.commit(list.narrow(list.original))

	list.logger.Info(list.ctx, "sort removed", "count", len(list.view))
}

// unexported

func (list *List[T]) resort() {

	view := slices.Clone(list.view)
	list.sortEntries(view)
	list.commit(view)
}

func (list *List[T]) sortEntries(entries []*entry[T]) {

	acc := list.sort.acc
	sign := 1
	if list.sort.dir == nt.Descending {
		sign = -1
	}

	slices.SortStableFunc(entries, func(a, b *entry[T]) int {
		cmp, err := acc.Compare(acc.Value(a.rec), acc.Value(b.rec))
		if err != nil {
			return 0
		}
		return sign * cmp
	})
}
