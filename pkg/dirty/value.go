package dirty

import "github.com/odvcencio/dirtyfx/pkg/observable"

// Value is an observable property that tracks its own dirtiness. It can be
// handed to anything expecting an observable.Settable, and it is a
// Property at the same time.
//
// Every constructor rebases before returning, so a Value is clean at birth
// whether or not an initial value was given.
type Value[T any] struct {
	*observable.Value[T]
	base *Base[T]
}

// Typed variants. Double compares bit for bit, so NaN is clean against a
// NaN baseline and -0 is dirty against +0.
type (
	Boolean = Value[bool]
	Double  = Value[float64]
	Integer = Value[int32]
	Long    = Value[int64]
	String  = Value[string]
)

// New creates a tracked property with owner and name metadata.
func New[T any](owner any, name string, initial T) *Value[T] {
	return NewWithEqual(owner, name, initial, nil)
}

// NewWithEqual is New with a custom equality; nil selects
// observable.DefaultEqual.
func NewWithEqual[T any](owner any, name string, initial T, equal func(a, b T) bool) *Value[T] {
	if equal == nil {
		equal = observable.DefaultEqual[T]
	}
	v := &Value[T]{}
	v.Value = observable.NewValueWithEqual(owner, name, initial, equal)
	v.base = NewBase[T](v.Value, equal)
	v.Rebase()
	return v
}

// Of creates an anonymous tracked property holding initial.
func Of[T any](initial T) *Value[T] {
	return New(nil, "", initial)
}

// Zero creates an anonymous tracked property holding T's zero value.
func Zero[T any]() *Value[T] {
	var zero T
	return New(nil, "", zero)
}

// NewBoolean creates a tracked bool.
func NewBoolean(initial bool) *Boolean { return Of(initial) }

// NewBooleanNamed creates a tracked bool with owner and name.
func NewBooleanNamed(owner any, name string, initial bool) *Boolean {
	return New(owner, name, initial)
}

// NewDouble creates a tracked float64.
func NewDouble(initial float64) *Double { return NewDoubleNamed(nil, "", initial) }

// NewDoubleNamed creates a tracked float64 with owner and name.
func NewDoubleNamed(owner any, name string, initial float64) *Double {
	return NewWithEqual(owner, name, initial, observable.FloatEqual)
}

// NewInteger creates a tracked int32.
func NewInteger(initial int32) *Integer { return Of(initial) }

// NewIntegerNamed creates a tracked int32 with owner and name.
func NewIntegerNamed(owner any, name string, initial int32) *Integer {
	return New(owner, name, initial)
}

// NewLong creates a tracked int64.
func NewLong(initial int64) *Long { return Of(initial) }

// NewLongNamed creates a tracked int64 with owner and name.
func NewLongNamed(owner any, name string, initial int64) *Long {
	return New(owner, name, initial)
}

// NewString creates a tracked string.
func NewString(initial string) *String { return Of(initial) }

// NewStringNamed creates a tracked string with owner and name.
func NewStringNamed(owner any, name string, initial string) *String {
	return New(owner, name, initial)
}

// NewObject creates a tracked value of an arbitrary type. Types without an
// Equal method or == fall back to reflect.DeepEqual; pointers compare by
// identity, so assigning a distinct but equivalent *T makes the property
// dirty.
func NewObject[T any](initial T) *Value[T] { return Of(initial) }

// NewObjectNamed creates a tracked object with owner and name.
func NewObjectNamed[T any](owner any, name string, initial T) *Value[T] {
	return New(owner, name, initial)
}

// Rebase commits the current value as the baseline.
func (v *Value[T]) Rebase() { v.base.Rebase() }

// Reset restores the baseline into the property.
func (v *Value[T]) Reset() { v.base.Reset() }

// IsDirty reports whether the property differs from its baseline.
func (v *Value[T]) IsDirty() bool { return v.base.IsDirty() }

// Dirty returns the read-only dirty signal.
func (v *Value[T]) Dirty() observable.Observable[bool] { return v.base.Dirty() }

// Baseline returns the read-only baseline.
func (v *Value[T]) Baseline() observable.Observable[T] { return v.base.Baseline() }

var (
	_ Property[string]             = (*String)(nil)
	_ observable.Settable[float64] = (*Double)(nil)
)
