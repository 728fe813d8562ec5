package recordlist

import (
	"slices"
	"strings"

	"github.com/pkg/errors"

	nt "combosearch/entity"
	"combosearch/field"
	"combosearch/filter"
)

type predicate[T any] func(rec T) bool

// Filter returns the active filter string, empty when there is none.
func (list *List[T]) Filter() string {
	return list.filter
}

// SetFilter parses and applies a filter string, see package filter for the
// syntax. Setting the current filter again does nothing. An empty string
// clears the filter.
//
// When the new filter does not continue the current one it is evaluated
// against the original, otherwise it narrows the current view further and
// its clauses stack on the current ones, so that refiltering the original
// reproduces the view. Either way a single Reset fires. On error nothing
// changes.
func (list *List[T]) SetFilter(in string) (err error) {

	if in == list.filter {
		return
	}

	if in == "" {
		list.clearFilter()
		return
	}

	expr, err := filter.Parse(in)
	if err != nil {
		return
	}

	predicates, err := list.compile(expr)
	if err != nil {
		return
	}

	base := list.baseline()
	if list.continues(list.filter, in) {
		base = list.view
		predicates = append(slices.Clone(list.predicates), predicates...)
	}

	list.filter = in
	list.predicates = predicates
	list.commit(list.narrow(base))

	list.logger.Info(list.ctx, "filter applied", "filter", in, "count", len(list.view), "of", len(list.original))
	return
}

// RemoveFilter clears the filter.
func (list *List[T]) RemoveFilter() {

	if list.filter != "" {
		list.clearFilter()
	}
}

// unexported

func (list *List[T]) clearFilter() {

	list.filter = ""
	list.predicates = nil
	list.commit(list.baseline())

	list.logger.Info(list.ctx, "filter removed", "count", len(list.view))
}

// narrow keeps entries that pass every predicate, in order.
func (list *List[T]) narrow(base []*entry[T]) []*entry[T] {

	kept := slices.Clone(base)
	for _, pred := range list.predicates {
		kept = slices.DeleteFunc(kept, func(ent *entry[T]) bool {
			return !pred(ent.rec)
		})
	}
	return kept
}

// compile resolves and converts everything up front so that a bad filter
// is rejected before the list is touched.
func (list *List[T]) compile(expr filter.Expression) (predicates []predicate[T], err error) {

	if expr.Like != nil {
		var pred predicate[T]
		pred, err = list.compileLike(*expr.Like)
		if err != nil {
			return
		}
		predicates = append(predicates, pred)
		return
	}

	for _, clause := range expr.Clauses {
		var pred predicate[T]
		pred, err = list.compileClause(clause)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, pred)
	}
	return
}

// compileLike matches on containment anywhere in the field, the trailing %
// of the literal does not anchor it to the start.
func (list *List[T]) compileLike(like filter.Like) (pred predicate[T], err error) {

	acc, err := list.registry.Resolve(like.Field)
	if err != nil {
		return
	}

	if acc.Kind() != field.KindText {
		err = errors.Wrapf(nt.ErrTypeMismatch, "like needs a text field, %q is %s", like.Field, acc.Kind())
		return
	}

	pred = func(rec T) bool {
		val, ok := acc.Value(rec).(string)
		return ok && strings.Contains(val, like.Text)
	}
	return
}

func (list *List[T]) compileClause(clause filter.Clause) (pred predicate[T], err error) {

	acc, err := list.registry.Resolve(clause.Field)
	if err != nil {
		return
	}

	if !acc.Comparable() {
		err = errors.Wrapf(nt.ErrNotComparable, "cannot filter on %q", clause.Field)
		return
	}

	literal, err := acc.Convert(clause.Value)
	if err != nil {
		return
	}

	pred = func(rec T) bool {
		val := acc.Value(rec)
		if val == nil {
			return false
		}

		cmp, err := acc.Compare(val, literal)
		if err != nil {
			return false
		}

		switch clause.Operator {
		case filter.EqualTo:
			return cmp == 0
		case filter.LessThan:
			return cmp < 0
		case filter.GreaterThan:
			return cmp > 0
		}
		return false
	}
	return
}
