package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

// Label draws one line of text, either fixed or read from an observable.
type Label struct {
	Base
	text  observable.Observable[string]
	style func(*theme.Theme) backend.Style
}

// NewLabel creates a label with fixed text.
func NewLabel(text string) *Label {
	return NewBoundLabel(observable.NewValue(text))
}

// NewBoundLabel creates a label that shows the current value of text.
func NewBoundLabel(text observable.Observable[string]) *Label {
	return &Label{
		text:  text,
		style: func(th *theme.Theme) backend.Style { return th.TextPrimary },
	}
}

// WithStyle picks the theme style the label draws with.
func (l *Label) WithStyle(pick func(*theme.Theme) backend.Style) *Label {
	l.style = pick
	return l
}

// Text returns the label's current text.
func (l *Label) Text() string {
	return l.text.Get()
}

// Measure returns the text width, one row tall.
func (l *Label) Measure(c runtime.Constraints) runtime.Size {
	return c.Constrain(runtime.Size{Width: runewidth.StringWidth(l.text.Get()), Height: 1})
}

// Render draws the label.
func (l *Label) Render(ctx runtime.RenderContext) {
	b := l.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	ctx.Buffer.SetString(b.X, b.Y, truncate(l.text.Get(), b.Width), l.style(ctx.Theme), b.X+b.Width)
}
