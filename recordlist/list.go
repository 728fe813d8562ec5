// Package recordlist provides an observable list of records that can be
// filtered and sorted by field name while keeping the unfiltered original.
//
// The list is not safe for concurrent use, it belongs to the single view
// bound to it.
package recordlist

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	nt "combosearch/entity"
	"combosearch/field"
	"combosearch/filter"
)

// NotFound is the index returned by Find when nothing matches.
const NotFound = -1

// Policy decides whether filter next narrows filter prev so that it can be
// applied to the current view instead of the original.
type Policy func(prev, next string) bool

// Option configures a List.
type Option func(*config)

type config struct {
	ctx       context.Context
	logger    nt.Logger
	continues Policy
}

// WithLogger logs filter and sort activity.
func WithLogger(ctx context.Context, lgr nt.Logger) Option {
	return func(cfg *config) {
		cfg.ctx = ctx
		cfg.logger = lgr
	}
}

// WithContinuation replaces the filter continuation policy, filter.Continues
// by default.
func WithContinuation(policy Policy) Option {
	return func(cfg *config) {
		cfg.continues = policy
	}
}

// entry gives each record an identity so that filter and sort never
// duplicate it and removal finds exactly it in the original.
type entry[T any] struct {
	rec T
}

// List is an observable, filterable, sortable list of T.
type List[T any] struct {
	registry *field.Registry[T]

	original []*entry[T]
	view     []*entry[T]

	filter     string
	predicates []predicate[T]
	sort       sortState[T]

	allowNew  bool
	subs      []subscription
	nextID    int
	suspended int
	dirty     bool

	continues Policy
	ctx       context.Context
	logger    nt.Logger
}

// New creates an empty list whose fields are resolved through registry.
func New[T any](registry *field.Registry[T], opts ...Option) *List[T] {

	cfg := &config{
		ctx:       context.Background(),
		logger:    nt.NopLogger{},
		continues: filter.Continues,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &List[T]{
		registry:  registry,
		allowNew:  true,
		continues: cfg.continues,
		ctx:       cfg.ctx,
		logger:    cfg.logger,
	}
}

// Fields returns the names of the fields records can be filtered and sorted by.
func (list *List[T]) Fields() []string {
	return list.registry.Names()
}

// Len returns the number of records in the view.
func (list *List[T]) Len() int {
	return len(list.view)
}

// At returns the record at idx in the view.
func (list *List[T]) At(idx int) (rec T, ok bool) {

	if idx < 0 || idx >= len(list.view) {
		return
	}
	return list.view[idx].rec, true
}

// Items returns a copy of the view.
func (list *List[T]) Items() []T {
	return records(list.view)
}

// Original returns a copy of the unfiltered, unsorted original.
func (list *List[T]) Original() []T {
	return records(list.original)
}

// OriginalLen returns the number of records in the original.
func (list *List[T]) OriginalLen() int {
	return len(list.original)
}

// Add appends rec.
//
// Without a filter rec lands at the end of the view and ItemAdded fires,
// followed by a re-sort if a sort is active. With a filter the view is
// recomputed from the original and a single Reset fires.
func (list *List[T]) Add(rec T) {

	// never fails when inserting at the end
	_ = list.Insert(len(list.view), rec)
}

// AddRange appends recs with a single Reset.
func (list *List[T]) AddRange(recs ...T) {

	if len(recs) == 0 {
		return
	}

	added := make([]*entry[T], len(recs))
	for i, rec := range recs {
		added[i] = &entry[T]{rec: rec}
	}
	list.original = append(list.original, added...)

	if list.filter != "" {
		list.commit(list.narrow(list.baseline()))
		return
	}

	view := append(slices.Clone(list.view), added...)
	if list.sort.active {
		list.sortEntries(view)
	}
	list.commit(view)
}

// Insert puts rec at idx in the view and appends it to the original.
// A record landing at the end of a sorted view is settled into place.
func (list *List[T]) Insert(idx int, rec T) (err error) {

	if idx < 0 || idx > len(list.view) {
		err = errors.Wrapf(nt.ErrIndexOutOfRange, "cannot insert at %d of %d", idx, len(list.view))
		return
	}

	added := &entry[T]{rec: rec}
	list.original = append(list.original, added)

	if list.filter != "" {
		list.commit(list.narrow(list.baseline()))
		return
	}

	list.view = slices.Insert(list.view, idx, added)
	list.emit(Change{Kind: ItemAdded, Index: idx})

	if list.sort.active && idx > 0 && idx == len(list.view)-1 {
		list.resort()
	}
	return
}

// RemoveAt removes the record at idx in the view from both view and original.
func (list *List[T]) RemoveAt(idx int) (err error) {

	if idx < 0 || idx >= len(list.view) {
		err = errors.Wrapf(nt.ErrIndexOutOfRange, "cannot remove %d of %d", idx, len(list.view))
		return
	}

	removed := list.view[idx]
	list.view = slices.Delete(list.view, idx, idx+1)

	pos := slices.Index(list.original, removed)
	if pos >= 0 {
		list.original = slices.Delete(list.original, pos, pos+1)
	}

	list.emit(Change{Kind: ItemRemoved, Index: idx})
	return
}

// Clear empties the list.
func (list *List[T]) Clear() {

	list.original = nil
	list.commit(nil)
}

// unexported

// baseline is the original in sorted order if a sort is active.
func (list *List[T]) baseline() []*entry[T] {

	base := slices.Clone(list.original)
	if list.sort.active {
		list.sortEntries(base)
	}
	return base
}

func records[T any](entries []*entry[T]) []T {

	recs := make([]T, len(entries))
	for i, ent := range entries {
		recs[i] = ent.rec
	}
	return recs
}
