package runtime

// FocusScope is the ring of focusable widgets on a screen.
type FocusScope struct {
	widgets []Focusable
	current int // -1 if none
}

// NewFocusScope creates a new empty focus scope.
func NewFocusScope() *FocusScope {
	return &FocusScope{current: -1}
}

// Register adds a focusable widget to the scope.
// The first focusable widget registered receives focus.
func (f *FocusScope) Register(w Focusable) {
	for _, existing := range f.widgets {
		if existing == w {
			return
		}
	}
	f.widgets = append(f.widgets, w)

	if f.current == -1 && w.CanFocus() {
		f.current = len(f.widgets) - 1
		w.Focus()
	}
}

// Reset blurs the current widget and empties the ring.
func (f *FocusScope) Reset() {
	f.ClearFocus()
	f.widgets = nil
}

// Current returns the currently focused widget, or nil.
func (f *FocusScope) Current() Focusable {
	if f.current >= 0 && f.current < len(f.widgets) {
		return f.widgets[f.current]
	}
	return nil
}

// SetFocus focuses a specific widget. Returns true if focus changed.
func (f *FocusScope) SetFocus(w Focusable) bool {
	for i, existing := range f.widgets {
		if existing == w && w.CanFocus() {
			return f.focusIndex(i)
		}
	}
	return false
}

// FocusNext moves focus forward, wrapping at the end.
func (f *FocusScope) FocusNext() bool {
	return f.step(1)
}

// FocusPrev moves focus backward, wrapping at the start.
func (f *FocusScope) FocusPrev() bool {
	return f.step(-1)
}

func (f *FocusScope) step(dir int) bool {
	n := len(f.widgets)
	if n == 0 {
		return false
	}
	start := f.current
	if start < 0 {
		if dir > 0 {
			start = -1
		} else {
			start = n
		}
	}
	for i := 1; i <= n; i++ {
		idx := ((start+dir*i)%n + n) % n
		if f.widgets[idx].CanFocus() {
			return f.focusIndex(idx)
		}
	}
	return false
}

// ClearFocus removes focus from the current widget.
func (f *FocusScope) ClearFocus() {
	if w := f.Current(); w != nil {
		w.Blur()
	}
	f.current = -1
}

// Count returns the number of registered widgets.
func (f *FocusScope) Count() int {
	return len(f.widgets)
}

func (f *FocusScope) focusIndex(i int) bool {
	if i == f.current {
		return false
	}
	if w := f.Current(); w != nil {
		w.Blur()
	}
	f.current = i
	f.widgets[i].Focus()
	return true
}
