package widgets

import (
	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

// Toggle flips a bool observable with space.
type Toggle struct {
	FocusableBase
	value observable.Settable[bool]
}

// NewToggle creates a toggle bound to value.
func NewToggle(value observable.Settable[bool]) *Toggle {
	return &Toggle{value: value}
}

// Measure returns the checkbox size.
func (t *Toggle) Measure(c runtime.Constraints) runtime.Size {
	return c.Constrain(runtime.Size{Width: len(theme.Symbols.On), Height: 1})
}

// Render draws [x] or [ ].
func (t *Toggle) Render(ctx runtime.RenderContext) {
	b := t.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	style := ctx.Theme.Field
	if t.focused {
		style = ctx.Theme.FieldFocus
	}
	box := theme.Symbols.Off
	if t.value.Get() {
		box = theme.Symbols.On
	}
	ctx.Buffer.SetString(b.X, b.Y, box, style, b.X+b.Width)
}

// HandleMessage toggles on space.
func (t *Toggle) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if !t.focused {
		return runtime.Unhandled()
	}
	key, ok := msg.(runtime.KeyMsg)
	if !ok {
		return runtime.Unhandled()
	}
	switch {
	case key.Key == terminal.KeyRune && key.Rune == ' ':
		t.value.Set(!t.value.Get())
		return runtime.Handled()
	case key.Key == terminal.KeyEnter:
		return runtime.WithCommand(runtime.FocusNext{})
	}
	return runtime.Unhandled()
}
