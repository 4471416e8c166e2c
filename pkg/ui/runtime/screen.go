package runtime

import (
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

// Screen owns the widget tree, its focus ring and the render buffer.
type Screen struct {
	width, height int
	root          Widget
	focus         *FocusScope
	buffer        *Buffer
	theme         *theme.Theme
}

// NewScreen creates a new screen with the given dimensions.
func NewScreen(w, h int, th *theme.Theme) *Screen {
	if th == nil {
		th = theme.DefaultTheme()
	}
	return &Screen{
		width:  w,
		height: h,
		focus:  NewFocusScope(),
		buffer: NewBuffer(w, h),
		theme:  th,
	}
}

// Size returns the screen dimensions.
func (s *Screen) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the screen dimensions and lays the tree out again.
func (s *Screen) Resize(w, h int) {
	s.width = w
	s.height = h
	s.buffer.Resize(w, h)
	s.layout()
}

// Buffer returns the screen's render buffer.
func (s *Screen) Buffer() *Buffer {
	return s.buffer
}

// Theme returns the current theme.
func (s *Screen) Theme() *theme.Theme {
	return s.theme
}

// FocusScope returns the screen's focus ring.
func (s *Screen) FocusScope() *FocusScope {
	return s.focus
}

// Root returns the root widget.
func (s *Screen) Root() Widget {
	return s.root
}

// SetRoot installs root, rebuilds the focus ring from its focusable
// descendants in tree order, and lays it out.
func (s *Screen) SetRoot(root Widget) {
	s.root = root
	s.focus.Reset()
	walk(root, func(w Widget) {
		if f, ok := w.(Focusable); ok && f.CanFocus() {
			s.focus.Register(f)
		}
	})
	s.layout()
}

func walk(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	fn(w)
	if c, ok := w.(Container); ok {
		for _, child := range c.ChildWidgets() {
			walk(child, fn)
		}
	}
}

func (s *Screen) layout() {
	if s.root != nil {
		s.root.Layout(Rect{Width: s.width, Height: s.height})
	}
}

// Render draws the tree into the buffer.
func (s *Screen) Render() {
	s.buffer.Clear(s.theme.Background)
	if s.root == nil {
		return
	}
	s.root.Render(RenderContext{
		Buffer: s.buffer,
		Theme:  s.theme,
		Bounds: Rect{Width: s.width, Height: s.height},
	})
}

// HandleMessage offers msg to the focused widget, then to the root.
// Tab and Shift+Tab move focus when no widget claims them. Focus commands
// are applied here; all commands are returned for the App.
func (s *Screen) HandleMessage(msg Message) HandleResult {
	result := Unhandled()
	if current := s.focus.Current(); current != nil {
		result = current.HandleMessage(msg)
	}
	if !result.Handled && s.root != nil {
		result = s.root.HandleMessage(msg)
	}
	if !result.Handled {
		if key, ok := msg.(KeyMsg); ok {
			switch key.Key {
			case terminal.KeyTab:
				result = WithCommand(FocusNext{})
			case terminal.KeyBacktab:
				result = WithCommand(FocusPrev{})
			}
		}
	}

	for _, cmd := range result.Commands {
		switch cmd.(type) {
		case FocusNext:
			s.focus.FocusNext()
		case FocusPrev:
			s.focus.FocusPrev()
		}
	}
	return result
}

// RenderContext provides context to widgets during rendering.
type RenderContext struct {
	Buffer *Buffer
	Theme  *theme.Theme
	Bounds Rect
}

// Sub creates a new context for a child widget with adjusted bounds.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	ctx.Bounds = bounds
	return ctx
}
