package observable

import (
	"math"
	"strings"
	"testing"
	"time"
)

type version struct{ major, minor int }

type caseless string

func (c caseless) Equal(other caseless) bool {
	return strings.EqualFold(string(c), string(other))
}

func TestFloatEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"same", 3.2, 3.2, true},
		{"different", 3.2, 3.2000001, false},
		{"nan", math.NaN(), math.NaN(), true},
		{"signed zero", 0, math.Copysign(0, -1), false},
		{"infinity", math.Inf(1), math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloatEqual(tt.a, tt.b); got != tt.want {
				t.Fatalf("FloatEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDefaultEqual(t *testing.T) {
	p1, p2 := &version{1, 0}, &version{1, 0}
	noon := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	checks := []struct {
		name string
		got  bool
		want bool
	}{
		{"bool", DefaultEqual(true, true), true},
		{"string", DefaultEqual("a", "b"), false},
		{"int32", DefaultEqual[int32](4, 4), true},
		{"float32 nan", DefaultEqual(float32(math.NaN()), float32(math.NaN())), true},
		{"struct", DefaultEqual(version{1, 2}, version{1, 2}), true},
		{"pointer identity", DefaultEqual(p1, p1), true},
		{"distinct pointers", DefaultEqual(p1, p2), false},
		{"slice", DefaultEqual([]int{1, 2}, []int{1, 2}), true},
		{"slice order", DefaultEqual([]int{1, 2}, []int{2, 1}), false},
		{"map", DefaultEqual(map[string]int{"a": 1}, map[string]int{"a": 1}), true},
		{"nil slices", DefaultEqual[[]int](nil, nil), true},
		{"time zones", DefaultEqual(noon, noon.In(time.FixedZone("x", 7200))), true},
		{"equal method", DefaultEqual(caseless("Hello"), caseless("hELLO")), true},
		{"interface nil", DefaultEqual[any](nil, nil), true},
		{"interface nil vs value", DefaultEqual[any](nil, 1), false},
		{"interface mixed types", DefaultEqual[any](1, "1"), false},
		{"interface mixed bool", DefaultEqual[any](true, 1), false},
		{"interface floats", DefaultEqual[any](math.NaN(), math.NaN()), true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}
