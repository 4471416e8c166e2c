package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/dirtyfx/pkg/dirty"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

// Field is one form row: a dirty marker, a label and an editor. The marker
// and label switch to the dirty style while the tracked property differs
// from its baseline.
type Field struct {
	Base
	label      string
	labelWidth int
	tracked    dirty.Trackable
	editor     runtime.Widget
}

// NewField creates a row labelled label editing tracked through editor.
func NewField(label string, tracked dirty.Trackable, editor runtime.Widget) *Field {
	return &Field{
		label:      label,
		labelWidth: runewidth.StringWidth(label),
		tracked:    tracked,
		editor:     editor,
	}
}

// SetLabelWidth pads the label column so editors line up.
func (f *Field) SetLabelWidth(w int) {
	f.labelWidth = w
}

// Label returns the row label.
func (f *Field) Label() string {
	return f.label
}

// Editor returns the row's editor widget.
func (f *Field) Editor() runtime.Widget {
	return f.editor
}

// ChildWidgets exposes the editor to the focus ring.
func (f *Field) ChildWidgets() []runtime.Widget {
	return []runtime.Widget{f.editor}
}

func (f *Field) gutter() int {
	return 2 + f.labelWidth + 2
}

// Measure returns gutter plus editor width, one row tall.
func (f *Field) Measure(c runtime.Constraints) runtime.Size {
	e := f.editor.Measure(runtime.Loose(max(0, c.MaxWidth-f.gutter()), 1))
	return c.Constrain(runtime.Size{Width: f.gutter() + e.Width, Height: 1})
}

// Layout places the editor after the label column.
func (f *Field) Layout(bounds runtime.Rect) {
	f.bounds = bounds
	f.editor.Layout(runtime.Rect{
		X:      bounds.X + f.gutter(),
		Y:      bounds.Y,
		Width:  max(0, bounds.Width-f.gutter()),
		Height: min(bounds.Height, 1),
	})
}

// Render draws marker, label and editor.
func (f *Field) Render(ctx runtime.RenderContext) {
	b := f.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	marker, style := theme.Symbols.Clean, ctx.Theme.Label
	if f.tracked != nil && f.tracked.IsDirty() {
		marker, style = theme.Symbols.Dirty, ctx.Theme.LabelDirty
	}
	limit := b.X + min(b.Width, f.gutter())
	x := ctx.Buffer.SetString(b.X, b.Y, marker, style, limit)
	ctx.Buffer.SetString(x+1, b.Y, truncate(f.label, f.labelWidth), style, limit)
	f.editor.Render(ctx)
}

// HandleMessage forwards to the editor.
func (f *Field) HandleMessage(msg runtime.Message) runtime.HandleResult {
	return f.editor.HandleMessage(msg)
}
