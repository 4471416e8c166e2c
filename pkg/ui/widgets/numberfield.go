package widgets

import (
	"math"
	"strconv"

	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
)

// Number is the set of numeric property types a NumberField edits.
type Number interface {
	~int32 | ~int64 | ~float64
}

// NumberField edits a numeric observable. Typed text is written through as
// soon as it parses; Up and Down step the value. Text that does not parse
// stays as a draft drawn in the error style and is dropped on blur. Stepping
// stops at the limits of T instead of wrapping.
type NumberField[T Number] struct {
	FocusableBase

	value    observable.Settable[T]
	step     T
	min, max T
	parse    func(string) (T, error)
	format   func(T) string
	width    int

	draft   []rune
	editing bool
	written T
}

// NewDoubleField creates a field for a float64 property.
func NewDoubleField(value observable.Settable[float64], step float64) *NumberField[float64] {
	return newNumberField(value, step, -math.MaxFloat64, math.MaxFloat64,
		func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
		func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) })
}

// NewIntegerField creates a field for an int32 property.
func NewIntegerField(value observable.Settable[int32], step int32) *NumberField[int32] {
	return newNumberField(value, step, math.MinInt32, math.MaxInt32,
		func(s string) (int32, error) {
			n, err := strconv.ParseInt(s, 10, 32)
			return int32(n), err
		},
		func(v int32) string { return strconv.FormatInt(int64(v), 10) })
}

// NewLongField creates a field for an int64 property.
func NewLongField(value observable.Settable[int64], step int64) *NumberField[int64] {
	return newNumberField(value, step, math.MinInt64, math.MaxInt64,
		func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
		func(v int64) string { return strconv.FormatInt(v, 10) })
}

func newNumberField[T Number](value observable.Settable[T], step, lo, hi T, parse func(string) (T, error), format func(T) string) *NumberField[T] {
	if step < 0 {
		step = -step
	}
	return &NumberField[T]{value: value, step: step, min: lo, max: hi, parse: parse, format: format, width: 12}
}

// stepUp returns v+step, or max if that would overflow.
func (n *NumberField[T]) stepUp(v T) T {
	if v > n.max-n.step {
		return n.max
	}
	return v + n.step
}

// stepDown returns v-step, or min if that would overflow.
func (n *NumberField[T]) stepDown(v T) T {
	if v < n.min+n.step {
		return n.min
	}
	return v - n.step
}

// Text returns what the field currently shows.
func (n *NumberField[T]) Text() string {
	n.sync()
	if n.editing {
		return string(n.draft)
	}
	return n.format(n.value.Get())
}

// Valid reports whether the shown text parses.
func (n *NumberField[T]) Valid() bool {
	_, err := n.parse(n.Text())
	return err == nil
}

// sync drops the draft when the value was changed by someone else, e.g. a
// form reset while this field had focus.
func (n *NumberField[T]) sync() {
	if n.editing && !observable.DefaultEqual(n.value.Get(), n.written) {
		n.editing = false
		n.draft = nil
	}
}

// Blur discards an unparseable draft.
func (n *NumberField[T]) Blur() {
	n.FocusableBase.Blur()
	n.editing = false
	n.draft = nil
}

// Measure returns the preferred width, one row tall.
func (n *NumberField[T]) Measure(c runtime.Constraints) runtime.Size {
	return c.Constrain(runtime.Size{Width: n.width, Height: 1})
}

// Render draws the value or the draft being typed.
func (n *NumberField[T]) Render(ctx runtime.RenderContext) {
	b := n.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	style := ctx.Theme.Field
	if n.focused {
		style = ctx.Theme.FieldFocus
	}
	text := n.Text()
	if !n.Valid() {
		style = ctx.Theme.Error.Underline(n.focused)
	}
	ctx.Buffer.Fill(runtime.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: 1}, ' ', style)
	end := ctx.Buffer.SetString(b.X, b.Y, truncate(text, b.Width-1), style, b.X+b.Width)
	if n.focused {
		ctx.Buffer.Set(end, b.Y, ' ', style.Reverse(true))
	}
}

// HandleMessage edits the bound value.
func (n *NumberField[T]) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if !n.focused {
		return runtime.Unhandled()
	}
	key, ok := msg.(runtime.KeyMsg)
	if !ok {
		return runtime.Unhandled()
	}
	n.sync()

	switch key.Key {
	case terminal.KeyUp:
		n.set(n.stepUp(n.value.Get()))
		n.editing = false
	case terminal.KeyDown:
		n.set(n.stepDown(n.value.Get()))
		n.editing = false
	case terminal.KeyRune:
		if !numeric(key.Rune) {
			return runtime.Handled()
		}
		n.edit(append(n.current(), key.Rune))
	case terminal.KeyBackspace:
		if cur := n.current(); len(cur) > 0 {
			n.edit(cur[:len(cur)-1])
		}
	case terminal.KeyEnter:
		return runtime.WithCommand(runtime.FocusNext{})
	default:
		return runtime.Unhandled()
	}
	return runtime.Handled()
}

func (n *NumberField[T]) current() []rune {
	if n.editing {
		return n.draft
	}
	return []rune(n.format(n.value.Get()))
}

func (n *NumberField[T]) edit(text []rune) {
	n.draft = append([]rune(nil), text...)
	n.editing = true
	n.written = n.value.Get()
	if v, err := n.parse(string(text)); err == nil {
		n.set(v)
	}
}

func (n *NumberField[T]) set(v T) {
	n.value.Set(v)
	n.written = n.value.Get()
}

func numeric(r rune) bool {
	return (r >= '0' && r <= '9') || r == '-' || r == '.' || r == 'e' || r == 'E' || r == '+'
}
