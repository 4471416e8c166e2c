package runtime

// FlexDirection specifies the main axis of a flex container.
type FlexDirection int

const (
	Column FlexDirection = iota // Vertical (VBox)
	Row                         // Horizontal (HBox)
)

// FlexChild wraps a widget with its grow factor.
type FlexChild struct {
	Widget Widget
	Grow   float64 // 0 = measured size, >0 = share of leftover space
}

// Fixed creates a child that keeps its measured size.
func Fixed(w Widget) FlexChild {
	return FlexChild{Widget: w}
}

// Expanded creates a child that grows to fill available space.
func Expanded(w Widget) FlexChild {
	return FlexChild{Widget: w, Grow: 1}
}

// Flex is a container that lays out children along an axis.
type Flex struct {
	Direction FlexDirection
	Children  []FlexChild
	Gap       int

	bounds      Rect
	childBounds []Rect
}

// VBox creates a vertical flex container.
func VBox(children ...FlexChild) *Flex {
	return &Flex{Direction: Column, Children: children}
}

// HBox creates a horizontal flex container.
func HBox(children ...FlexChild) *Flex {
	return &Flex{Direction: Row, Children: children}
}

// WithGap sets the gap between children.
func (f *Flex) WithGap(gap int) *Flex {
	f.Gap = gap
	return f
}

// Measure sums children along the main axis and takes the widest across.
func (f *Flex) Measure(constraints Constraints) Size {
	main, cross := 0, 0
	for _, child := range f.Children {
		s := child.Widget.Measure(f.childConstraints(constraints.MaxWidth, constraints.MaxHeight))
		main += f.mainSize(s)
		cross = max(cross, f.crossSize(s))
	}
	if len(f.Children) > 1 {
		main += f.Gap * (len(f.Children) - 1)
	}
	if f.Direction == Column {
		return constraints.Constrain(Size{Width: cross, Height: main})
	}
	return constraints.Constrain(Size{Width: main, Height: cross})
}

func (f *Flex) childConstraints(w, h int) Constraints {
	if f.Direction == Column {
		return Loose(w, maxInt)
	}
	return Loose(maxInt, h)
}

// Layout positions all children within the given bounds.
func (f *Flex) Layout(bounds Rect) {
	f.bounds = bounds
	f.childBounds = make([]Rect, len(f.Children))
	if len(f.Children) == 0 {
		return
	}

	sizes := make([]int, len(f.Children))
	fixed, grow := f.Gap*(len(f.Children)-1), 0.0
	for i, child := range f.Children {
		sizes[i] = f.mainSize(child.Widget.Measure(f.childConstraints(bounds.Width, bounds.Height)))
		if child.Grow == 0 {
			fixed += sizes[i]
		}
		grow += child.Grow
	}
	available := max(0, f.mainSize(bounds.Size())-fixed)

	offset := 0
	for i, child := range f.Children {
		size := sizes[i]
		if child.Grow > 0 {
			size = int(float64(available) * child.Grow / grow)
		}
		r := Rect{X: bounds.X, Y: bounds.Y + offset, Width: bounds.Width, Height: size}
		if f.Direction == Row {
			r = Rect{X: bounds.X + offset, Y: bounds.Y, Width: size, Height: bounds.Height}
		}
		f.childBounds[i] = r
		child.Widget.Layout(r)
		offset += size + f.Gap
	}
}

// Bounds returns the assigned bounds for the flex container.
func (f *Flex) Bounds() Rect {
	return f.bounds
}

// ChildWidgets returns the flex container's child widgets.
func (f *Flex) ChildWidgets() []Widget {
	children := make([]Widget, 0, len(f.Children))
	for _, child := range f.Children {
		if child.Widget != nil {
			children = append(children, child.Widget)
		}
	}
	return children
}

// Render draws all children.
func (f *Flex) Render(ctx RenderContext) {
	for i, child := range f.Children {
		if i < len(f.childBounds) {
			child.Widget.Render(ctx.Sub(f.childBounds[i]))
		}
	}
}

// HandleMessage dispatches to children; first handler wins.
func (f *Flex) HandleMessage(msg Message) HandleResult {
	for _, child := range f.Children {
		if result := child.Widget.HandleMessage(msg); result.Handled {
			return result
		}
	}
	return Unhandled()
}

func (f *Flex) mainSize(s Size) int {
	if f.Direction == Column {
		return s.Height
	}
	return s.Width
}

func (f *Flex) crossSize(s Size) int {
	if f.Direction == Column {
		return s.Width
	}
	return s.Height
}
