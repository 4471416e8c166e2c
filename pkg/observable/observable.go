// Package observable provides the observable-value primitives the rest of
// dirtyfx is layered on: mutable properties, lazily evaluated bindings, and
// the subscription plumbing between them.
//
// Everything in this package assumes a single UI goroutine. Reads, writes and
// listener callbacks are not synchronized; background work must hand its
// results to an Executor before touching any observable.
package observable

import "slices"

// Dependency is anything a binding can depend on. Subscribe registers an
// invalidation listener that fires when the value may have changed.
type Dependency interface {
	Subscribe(fn func()) Subscription
}

// Observable is a readable value that notifies subscribers on change.
type Observable[T any] interface {
	Dependency

	// Get returns the current value, recomputing it first if it is stale.
	Get() T

	// OnChange registers a listener that receives the old and new value.
	// Registering a change listener forces eager evaluation.
	OnChange(fn func(old, new T)) Subscription
}

// Settable is an Observable that can be written.
type Settable[T any] interface {
	Observable[T]
	Set(value T)
}

// Subscription detaches a listener. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

type funcSubscription struct {
	fn func()
}

func (s *funcSubscription) Unsubscribe() {
	if s == nil || s.fn == nil {
		return
	}
	fn := s.fn
	s.fn = nil
	fn()
}

// SubscriptionFunc wraps fn so it runs at most once.
func SubscriptionFunc(fn func()) Subscription {
	return &funcSubscription{fn: fn}
}

// Empty is a subscription that does nothing.
var Empty Subscription = &funcSubscription{}

// Combine returns a subscription that unsubscribes all of subs.
func Combine(subs ...Subscription) Subscription {
	subs = slices.DeleteFunc(slices.Clone(subs), func(s Subscription) bool { return s == nil })
	return SubscriptionFunc(func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	})
}

// Executor runs work on the goroutine that owns the observables.
type Executor interface {
	Invoke(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

// Invoke calls f(fn).
func (f ExecutorFunc) Invoke(fn func()) {
	f(fn)
}

// Immediate runs work inline on the calling goroutine.
var Immediate Executor = ExecutorFunc(func(fn func()) { fn() })

// registry keeps listeners in registration order.
type registry[F any] struct {
	next    uint64
	entries []registryEntry[F]
}

type registryEntry[F any] struct {
	id uint64
	fn F
}

func (r *registry[F]) add(fn F) Subscription {
	r.next++
	id := r.next
	r.entries = append(r.entries, registryEntry[F]{id: id, fn: fn})
	return SubscriptionFunc(func() { r.remove(id) })
}

func (r *registry[F]) remove(id uint64) {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = slices.Delete(r.entries, i, i+1)
			return
		}
	}
}

func (r *registry[F]) len() int {
	return len(r.entries)
}

// snapshot copies the listeners so callbacks may (un)subscribe freely.
func (r *registry[F]) snapshot() []F {
	if len(r.entries) == 0 {
		return nil
	}
	out := make([]F, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.fn
	}
	return out
}
