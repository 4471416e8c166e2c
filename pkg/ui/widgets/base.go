// Package widgets provides form widgets that edit observables in place and
// draw their dirty state.
package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
)

// Base provides common functionality for widgets.
// Embed this in widget structs to get default implementations.
type Base struct {
	bounds  runtime.Rect
	focused bool
}

// Layout stores the assigned bounds.
func (b *Base) Layout(bounds runtime.Rect) {
	b.bounds = bounds
}

// Bounds returns the widget's assigned bounds.
func (b *Base) Bounds() runtime.Rect {
	return b.bounds
}

// HandleMessage returns Unhandled by default.
func (b *Base) HandleMessage(runtime.Message) runtime.HandleResult {
	return runtime.Unhandled()
}

// FocusableBase extends Base for focusable widgets.
type FocusableBase struct {
	Base
}

// CanFocus returns true for focusable widgets.
func (f *FocusableBase) CanFocus() bool { return true }

// Focus marks the widget as focused.
func (f *FocusableBase) Focus() { f.focused = true }

// Blur marks the widget as unfocused.
func (f *FocusableBase) Blur() { f.focused = false }

// IsFocused returns whether the widget is focused.
func (f *FocusableBase) IsFocused() bool { return f.focused }

// truncate cuts s to at most width display columns, ending in "…" when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
