// Package runtime provides the widget runtime for dirtyfx forms: a
// measure/layout/render widget protocol, a focus ring, and an App whose
// event loop is the single UI thread every observable lives on.
package runtime

// Constraints define the min/max space available to a widget during measure.
type Constraints struct {
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int
}

// Tight returns constraints that force an exact size.
func Tight(w, h int) Constraints {
	return Constraints{MinWidth: w, MaxWidth: w, MinHeight: h, MaxHeight: h}
}

// Loose returns constraints with only max bounds (min = 0).
func Loose(w, h int) Constraints {
	return Constraints{MaxWidth: w, MaxHeight: h}
}

// Constrain clamps a size to fit within these constraints.
func (c Constraints) Constrain(s Size) Size {
	return Size{
		Width:  clamp(s.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(s.Height, c.MinHeight, c.MaxHeight),
	}
}

// MinSize returns the minimum size required by constraints.
func (c Constraints) MinSize() Size {
	return Size{Width: c.MinWidth, Height: c.MinHeight}
}

// Size is a widget's measured dimensions.
type Size struct {
	Width, Height int
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Size returns the rect's dimensions as a Size.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains returns true if the point is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersection returns the overlapping area of two rects.
func (r Rect) Intersection(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x || y2 <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inset returns a rect shrunk by the given amounts.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  max(0, r.Width-left-right),
		Height: max(0, r.Height-top-bottom),
	}
}

// Widget is the core interface all UI components implement.
type Widget interface {
	// Measure returns desired size given constraints.
	Measure(constraints Constraints) Size

	// Layout assigns final position and size.
	Layout(bounds Rect)

	// Render draws the widget to the buffer.
	Render(ctx RenderContext)

	// HandleMessage processes input/events.
	HandleMessage(msg Message) HandleResult
}

// Focusable extends Widget for widgets that can receive keyboard focus.
type Focusable interface {
	Widget
	CanFocus() bool
	Focus()
	Blur()
	IsFocused() bool
}

// Container is implemented by widgets with children. The screen walks
// containers to build the focus ring.
type Container interface {
	ChildWidgets() []Widget
}

// HandleResult is returned from HandleMessage.
type HandleResult struct {
	Handled  bool
	Commands []Command
}

// Handled returns a result indicating the message was consumed.
func Handled() HandleResult {
	return HandleResult{Handled: true}
}

// Unhandled returns a result indicating the message was not consumed.
func Unhandled() HandleResult {
	return HandleResult{}
}

// WithCommand returns a handled result with a single command.
func WithCommand(cmd Command) HandleResult {
	return HandleResult{Handled: true, Commands: []Command{cmd}}
}

const maxInt = int(^uint(0) >> 1)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
