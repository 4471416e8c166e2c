package observable

// LazyBinding observes its sources only while someone observes it. With no
// listeners it holds no subscriptions, so it can be garbage collected
// together with whatever it reads, and every Get computes afresh.
type LazyBinding[T any] struct {
	compute        func() T
	observeSources func(invalidate func()) Subscription
	equal          func(a, b T) bool

	value   T
	valid   bool
	sources Subscription

	invalidations registry[func()]
	changes       registry[func(old, new T)]
}

// NewLazy creates a LazyBinding. observeSources is called when the first
// listener arrives and must subscribe invalidate to every source; the
// returned subscription is released when the last listener leaves.
func NewLazy[T any](compute func() T, observeSources func(invalidate func()) Subscription) *LazyBinding[T] {
	return &LazyBinding[T]{
		compute:        compute,
		observeSources: observeSources,
		equal:          DefaultEqual[T],
	}
}

// Observed reports whether any listener is registered.
func (l *LazyBinding[T]) Observed() bool {
	return l.invalidations.len()+l.changes.len() > 0
}

// Get returns the value. Unobserved bindings never cache.
func (l *LazyBinding[T]) Get() T {
	if !l.Observed() {
		return l.compute()
	}
	if !l.valid {
		l.value = l.compute()
		l.valid = true
	}
	return l.value
}

// Subscribe registers an invalidation listener.
func (l *LazyBinding[T]) Subscribe(fn func()) Subscription {
	if fn == nil {
		return Empty
	}
	sub := l.invalidations.add(fn)
	return l.afterAdd(sub)
}

// OnChange registers a change listener.
func (l *LazyBinding[T]) OnChange(fn func(old, new T)) Subscription {
	if fn == nil {
		return Empty
	}
	sub := l.changes.add(fn)
	return l.afterAdd(sub)
}

// Invalidate marks the binding stale and notifies listeners if it was valid.
func (l *LazyBinding[T]) Invalidate() {
	if !l.valid {
		return
	}
	l.valid = false
	old := l.value
	for _, fn := range l.invalidations.snapshot() {
		fn()
	}
	if l.changes.len() == 0 {
		return
	}
	current := l.Get()
	if l.equal(old, current) {
		return
	}
	for _, fn := range l.changes.snapshot() {
		fn(old, current)
	}
}

func (l *LazyBinding[T]) afterAdd(sub Subscription) Subscription {
	if l.sources == nil && l.observeSources != nil {
		l.sources = l.observeSources(l.Invalidate)
	}
	l.Get()
	return SubscriptionFunc(func() {
		sub.Unsubscribe()
		l.afterRemove()
	})
}

func (l *LazyBinding[T]) afterRemove() {
	if l.sources == nil || l.Observed() {
		return
	}
	l.sources.Unsubscribe()
	l.sources = nil
	l.valid = false
}

// FlatMap follows the observable selected by fn from the current value of
// src. When src changes the selection is re-evaluated and the subscription
// to the previously selected observable is dropped. A nil selection yields
// the zero value.
func FlatMap[S, T any](src Observable[S], fn func(S) Observable[T]) Observable[T] {
	f := &flatMapped[S, T]{src: src, fn: fn}
	f.lazy = NewLazy(f.compute, f.observeSources)
	return f.lazy
}

type flatMapped[S, T any] struct {
	src         Observable[S]
	fn          func(S) Observable[T]
	lazy        *LazyBinding[T]
	indirectSub Subscription
}

func (f *flatMapped[S, T]) compute() T {
	target := f.fn(f.src.Get())
	if f.lazy.Observed() {
		f.dropIndirect()
		if target != nil {
			f.indirectSub = target.Subscribe(f.lazy.Invalidate)
		}
	}
	if target == nil {
		var zero T
		return zero
	}
	return target.Get()
}

func (f *flatMapped[S, T]) observeSources(invalidate func()) Subscription {
	sub := f.src.Subscribe(func() {
		f.dropIndirect()
		invalidate()
	})
	return SubscriptionFunc(func() {
		sub.Unsubscribe()
		f.dropIndirect()
	})
}

func (f *flatMapped[S, T]) dropIndirect() {
	if f.indirectSub != nil {
		f.indirectSub.Unsubscribe()
		f.indirectSub = nil
	}
}

// ReadOnly hides the write side of o.
func ReadOnly[T any](o Observable[T]) Observable[T] {
	if r, ok := o.(readOnly[T]); ok {
		return r
	}
	return readOnly[T]{src: o}
}

type readOnly[T any] struct {
	src Observable[T]
}

func (r readOnly[T]) Get() T { return r.src.Get() }
func (r readOnly[T]) Subscribe(fn func()) Subscription { return r.src.Subscribe(fn) }
func (r readOnly[T]) OnChange(fn func(old, new T)) Subscription { return r.src.OnChange(fn) }
