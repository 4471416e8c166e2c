package observable

import (
	"errors"
	"fmt"
)

// ErrBound is returned when writing a property that is bound to another
// observable.
var ErrBound = errors.New("observable: property is bound")

// Value is a mutable observable property. Owner and name identify the
// property for diagnostics only.
//
// Set notifies listeners only when the new value differs from the current
// one under the property's equality. A bound Value mirrors its source lazily:
// it goes stale when the source invalidates and pulls on the next Get.
type Value[T any] struct {
	owner any
	name  string
	value T
	equal func(a, b T) bool

	bound    Observable[T]
	boundSub Subscription
	stale    bool

	invalidations registry[func()]
	changes       registry[func(old, new T)]
}

// NewValue creates an anonymous property holding initial.
func NewValue[T any](initial T) *Value[T] {
	return NewValueWithEqual[T](nil, "", initial, nil)
}

// NewNamed creates a property that records its owner and name.
func NewNamed[T any](owner any, name string, initial T) *Value[T] {
	return NewValueWithEqual[T](owner, name, initial, nil)
}

// NewValueWithEqual creates a property with a custom equality. A nil equal
// selects DefaultEqual.
func NewValueWithEqual[T any](owner any, name string, initial T, equal func(a, b T) bool) *Value[T] {
	if equal == nil {
		equal = DefaultEqual[T]
	}
	return &Value[T]{
		owner: owner,
		name:  name,
		value: initial,
		equal: equal,
	}
}

// Owner returns the object this property belongs to, if any.
func (v *Value[T]) Owner() any {
	return v.owner
}

// Name returns the property name, possibly empty.
func (v *Value[T]) Name() string {
	return v.name
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	if v.bound != nil && v.stale {
		v.value = v.bound.Get()
		v.stale = false
	}
	return v.value
}

// Set writes value. Writes to a bound property are ignored; use TrySet to
// observe that case.
func (v *Value[T]) Set(value T) {
	_ = v.TrySet(value)
}

// TrySet writes value, returning ErrBound if the property is bound.
func (v *Value[T]) TrySet(value T) error {
	if v.bound != nil {
		return ErrBound
	}
	old := v.value
	if v.eq(old, value) {
		return nil
	}
	v.value = value
	v.notify(old)
	return nil
}

// Subscribe registers an invalidation listener.
func (v *Value[T]) Subscribe(fn func()) Subscription {
	if fn == nil {
		return Empty
	}
	sub := v.invalidations.add(fn)
	v.Get()
	return sub
}

// OnChange registers a change listener.
func (v *Value[T]) OnChange(fn func(old, new T)) Subscription {
	if fn == nil {
		return Empty
	}
	sub := v.changes.add(fn)
	v.Get()
	return sub
}

// Bind makes v follow src until Unbind. Binding to nil unbinds.
func (v *Value[T]) Bind(src Observable[T]) {
	v.Unbind()
	if src == nil {
		return
	}
	old := v.value
	v.bound = src
	v.stale = true
	v.boundSub = src.Subscribe(v.sourceInvalidated)
	v.notify(old)
}

// Unbind stops following the bound source, keeping its last value.
func (v *Value[T]) Unbind() {
	if v.bound == nil {
		return
	}
	v.value = v.Get()
	v.boundSub.Unsubscribe()
	v.bound = nil
	v.boundSub = nil
	v.stale = false
}

// IsBound reports whether v follows another observable.
func (v *Value[T]) IsBound() bool {
	return v.bound != nil
}

// String identifies the property for diagnostics.
func (v *Value[T]) String() string {
	if v.name == "" {
		return fmt.Sprintf("Value[%v]", v.Get())
	}
	return fmt.Sprintf("Value[name: %s, value: %v]", v.name, v.Get())
}

func (v *Value[T]) sourceInvalidated() {
	if v.stale {
		return
	}
	old := v.value
	v.stale = true
	v.notify(old)
}

func (v *Value[T]) notify(old T) {
	for _, fn := range v.invalidations.snapshot() {
		fn()
	}
	if v.changes.len() == 0 {
		return
	}
	current := v.Get()
	if v.eq(old, current) {
		return
	}
	for _, fn := range v.changes.snapshot() {
		fn(old, current)
	}
}

func (v *Value[T]) eq(a, b T) bool {
	if v.equal == nil {
		return DefaultEqual(a, b)
	}
	return v.equal(a, b)
}
