package observable

// Binding is a lazily evaluated value derived from its dependencies.
//
// A dependency invalidation only marks the binding stale. Subscribers hear
// about the valid to invalid transition once, so any number of writes
// between two reads costs a single recomputation on the next Get.
type Binding[T any] struct {
	compute func() T
	equal   func(a, b T) bool

	value T
	valid bool

	deps    []Dependency
	depSubs []Subscription

	invalidations registry[func()]
	changes       registry[func(old, new T)]
}

// NewBinding creates a binding that recomputes compute whenever any of deps
// invalidates.
func NewBinding[T any](compute func() T, deps ...Dependency) *Binding[T] {
	b := &Binding[T]{
		compute: compute,
		equal:   DefaultEqual[T],
	}
	b.Rebind(deps...)
	return b
}

// Map derives a binding by applying fn to src.
func Map[S, T any](src Observable[S], fn func(S) T) *Binding[T] {
	return NewBinding(func() T { return fn(src.Get()) }, src)
}

// Map2 derives a binding from two sources.
func Map2[A, B, T any](a Observable[A], b Observable[B], fn func(A, B) T) *Binding[T] {
	return NewBinding(func() T { return fn(a.Get(), b.Get()) }, a, b)
}

// Get returns the value, recomputing it if stale.
func (b *Binding[T]) Get() T {
	if !b.valid {
		b.value = b.compute()
		b.valid = true
	}
	return b.value
}

// IsValid reports whether the cached value is current.
func (b *Binding[T]) IsValid() bool {
	return b.valid
}

// Subscribe registers an invalidation listener. The binding is validated so
// the next dependency change is delivered.
func (b *Binding[T]) Subscribe(fn func()) Subscription {
	if fn == nil {
		return Empty
	}
	sub := b.invalidations.add(fn)
	b.Get()
	return sub
}

// OnChange registers a change listener.
func (b *Binding[T]) OnChange(fn func(old, new T)) Subscription {
	if fn == nil {
		return Empty
	}
	sub := b.changes.add(fn)
	b.Get()
	return sub
}

// Rebind replaces the dependency set. Subscriptions to the previous
// dependencies are dropped before the new ones are taken.
func (b *Binding[T]) Rebind(deps ...Dependency) {
	b.unsubscribeDeps()
	b.deps = make([]Dependency, 0, len(deps))
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		b.deps = append(b.deps, dep)
		b.depSubs = append(b.depSubs, dep.Subscribe(b.Invalidate))
	}
	b.Invalidate()
}

// Dispose drops all dependency subscriptions. Get keeps working but the
// binding no longer hears about changes.
func (b *Binding[T]) Dispose() {
	b.unsubscribeDeps()
	b.deps = nil
	b.valid = false
}

// Dependencies returns the current dependency set.
func (b *Binding[T]) Dependencies() []Dependency {
	return append([]Dependency(nil), b.deps...)
}

// Invalidate marks the binding stale and notifies listeners if it was valid.
func (b *Binding[T]) Invalidate() {
	if !b.valid {
		return
	}
	b.valid = false
	old := b.value
	for _, fn := range b.invalidations.snapshot() {
		fn()
	}
	if b.changes.len() == 0 {
		return
	}
	current := b.Get()
	if b.equal(old, current) {
		return
	}
	for _, fn := range b.changes.snapshot() {
		fn(old, current)
	}
}

func (b *Binding[T]) unsubscribeDeps() {
	for _, sub := range b.depSubs {
		sub.Unsubscribe()
	}
	b.depSubs = nil
}
