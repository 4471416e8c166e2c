// Package dirty tracks whether observable values have diverged from a
// recorded baseline.
//
// A Base wraps one settable observable and derives an is-dirty signal by
// comparing it with the baseline. Value is a property that is both a plain
// observable and a Property, and Composite ORs many trackables into a single
// form-level signal.
//
//	name := dirty.NewString("Ada")
//	form := dirty.NewComposite(name)
//	name.Set("Grace")    // form.IsDirty() == true
//	form.Reset()         // name.Get() == "Ada"
//
// Like the observables underneath, nothing here is safe for concurrent use.
package dirty

import "github.com/odvcencio/dirtyfx/pkg/observable"

// Trackable is the capability every dirty-trackable thing exposes.
// Composites identify members with ==, so implementations are pointers.
type Trackable interface {
	// IsDirty reports whether the current value differs from the baseline.
	IsDirty() bool

	// Dirty returns a read-only observable of IsDirty.
	Dirty() observable.Observable[bool]

	// Rebase commits the current value as the new baseline.
	Rebase()

	// Reset restores the current value from the baseline.
	Reset()
}

// Property is a Trackable with a typed baseline.
type Property[T any] interface {
	Trackable

	// Baseline returns a read-only observable of the recorded baseline.
	Baseline() observable.Observable[T]
}

// Base tracks one settable observable against a baseline it owns. The
// baseline starts equal to the wrapped value, so a new Base is clean.
type Base[T any] struct {
	wrapped  observable.Settable[T]
	equal    func(a, b T) bool
	baseline *observable.Value[T]
	dirty    *observable.Binding[bool]

	baselineView observable.Observable[T]
	dirtyView    observable.Observable[bool]
}

// NewBase starts tracking wrapped. A nil equal selects
// observable.DefaultEqual, which compares floats exactly and falls back to
// identity for pointer types.
func NewBase[T any](wrapped observable.Settable[T], equal func(a, b T) bool) *Base[T] {
	if equal == nil {
		equal = observable.DefaultEqual[T]
	}
	b := &Base[T]{
		wrapped: wrapped,
		equal:   equal,
	}
	b.baseline = observable.NewValueWithEqual(any(b), "baseline", wrapped.Get(), equal)
	b.dirty = observable.NewBinding(func() bool {
		return !b.equal(b.wrapped.Get(), b.baseline.Get())
	}, wrapped, b.baseline)
	b.baselineView = observable.ReadOnly[T](b.baseline)
	b.dirtyView = observable.ReadOnly[bool](b.dirty)
	return b
}

// Track wraps an existing settable observable with default equality.
func Track[T any](wrapped observable.Settable[T]) *Base[T] {
	return NewBase(wrapped, nil)
}

// Rebase sets baseline := current.
func (b *Base[T]) Rebase() {
	b.baseline.Set(b.wrapped.Get())
}

// Reset sets current := baseline. A bound wrapped value ignores the write.
func (b *Base[T]) Reset() {
	b.wrapped.Set(b.baseline.Get())
}

// IsDirty reports whether current differs from baseline.
func (b *Base[T]) IsDirty() bool {
	return b.dirty.Get()
}

// Dirty returns the read-only dirty signal.
func (b *Base[T]) Dirty() observable.Observable[bool] {
	return b.dirtyView
}

// Baseline returns the read-only baseline.
func (b *Base[T]) Baseline() observable.Observable[T] {
	return b.baselineView
}

// BaselineValue returns the baseline without going through the observable.
func (b *Base[T]) BaselineValue() T {
	return b.baseline.Get()
}

var _ Property[int] = (*Base[int])(nil)
