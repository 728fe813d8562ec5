package recordlist

// ChangeKind says what happened to the view.
type ChangeKind int

const (
	// Reset invalidates the whole view.
	Reset ChangeKind = iota
	// ItemAdded reports a record added at Index.
	ItemAdded
	// ItemRemoved reports a record removed from Index.
	ItemRemoved
)

func (kind ChangeKind) String() string {
	switch kind {
	case ItemAdded:
		return "item-added"
	case ItemRemoved:
		return "item-removed"
	}
	return "reset"
}

// Change is a notification about the view. Index is -1 for Reset.
type Change struct {
	Kind  ChangeKind
	Index int
}

// Listener receives changes.
// Listeners observe only, the list is already up to date when they run.
type Listener func(Change)

type subscription struct {
	id       int
	listener Listener
}

// Subscribe registers a listener and returns a func that removes it.
func (list *List[T]) Subscribe(listener Listener) (unsubscribe func()) {

	list.nextID++
	id := list.nextID
	list.subs = append(list.subs, subscription{id: id, listener: listener})

	return func() {
		for i, sub := range list.subs {
			if sub.id == id {
				list.subs = append(list.subs[:i:i], list.subs[i+1:]...)
				return
			}
		}
	}
}

// SuspendEvents holds back notifications until the matching ResumeEvents.
// Calls nest.
func (list *List[T]) SuspendEvents() {
	list.suspended++
}

// ResumeEvents ends a suspension. When the outermost suspension ends and
// anything changed meanwhile, a single Reset fires.
func (list *List[T]) ResumeEvents() {

	if list.suspended == 0 {
		return
	}
	list.suspended--

	if list.suspended == 0 && list.dirty {
		list.dirty = false
		list.emit(Change{Kind: Reset, Index: -1})
	}
}

// AllowNew reports whether the bound view should offer record insertion.
// It is refreshed on every Reset: true while no filter is active.
func (list *List[T]) AllowNew() bool {
	return list.allowNew
}

// unexported

func (list *List[T]) emit(change Change) {

	if list.suspended > 0 {
		list.dirty = true
		return
	}

	if change.Kind == Reset {
		list.allowNew = list.filter == ""
	}

	// copy so a listener may unsubscribe itself
	subs := append([]subscription{}, list.subs...)
	for _, sub := range subs {
		sub.listener(change)
	}
}

// commit replaces the view and fires one Reset, or marks the list dirty if
// an outer suspension is in progress.
func (list *List[T]) commit(view []*entry[T]) {

	list.SuspendEvents()
	list.view = view
	list.dirty = true
	list.ResumeEvents()
}
