package observable

import (
	"math"
	"reflect"
)

// Equaler is implemented by types with their own notion of value equality,
// for example time.Time.
type Equaler[T any] interface {
	Equal(other T) bool
}

// FloatEqual compares floats bit for bit: NaN equals NaN and +0 differs
// from -0. There is no epsilon.
func FloatEqual(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// DefaultEqual is the equality used when none is supplied.
//
// In order: an Equal method, exact float comparison, == for comparable
// values (identity for pointers), and reflect.DeepEqual for the rest
// (slices, maps, structs holding them).
func DefaultEqual[T any](a, b T) bool {
	switch av := any(a).(type) {
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int32:
		bv, ok := any(b).(int32)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && FloatEqual(av, bv)
	case float32:
		bv, ok := any(b).(float32)
		return ok && math.Float32bits(av) == math.Float32bits(bv)
	case Equaler[T]:
		return av.Equal(b)
	}

	ai, bi := any(a), any(b)
	if ai == nil || bi == nil {
		return ai == nil && bi == nil
	}
	va, vb := reflect.ValueOf(ai), reflect.ValueOf(bi)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		return FloatEqual(va.Float(), vb.Float())
	}
	if va.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(ai, bi)
}
