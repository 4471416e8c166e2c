package runtime

import "testing"

func focusables(n int) []*appTestWidget {
	ws := make([]*appTestWidget, n)
	for i := range ws {
		ws[i] = &appTestWidget{focusable: true}
	}
	return ws
}

func TestFocusScope_FirstRegisteredGetsFocus(t *testing.T) {
	ws := focusables(2)
	f := NewFocusScope()
	f.Register(ws[0])
	f.Register(ws[1])
	f.Register(ws[0])

	if f.Count() != 2 {
		t.Fatalf("duplicate registration should be ignored, count=%d", f.Count())
	}
	if f.Current() != ws[0] || !ws[0].focused {
		t.Fatal("first widget should be focused")
	}
}

func TestFocusScope_NextPrevWrapAndSkip(t *testing.T) {
	ws := focusables(3)
	ws[1].focusable = false
	f := NewFocusScope()
	for _, w := range ws {
		f.Register(w)
	}

	if !f.FocusNext() || f.Current() != ws[2] {
		t.Fatal("FocusNext should skip the unfocusable widget")
	}
	if ws[0].focused {
		t.Fatal("previous widget should be blurred")
	}
	f.FocusNext()
	if f.Current() != ws[0] {
		t.Fatal("FocusNext should wrap to the start")
	}
	f.FocusPrev()
	if f.Current() != ws[2] {
		t.Fatal("FocusPrev should wrap to the end")
	}
}

func TestFocusScope_SetFocusAndReset(t *testing.T) {
	ws := focusables(2)
	f := NewFocusScope()
	f.Register(ws[0])
	f.Register(ws[1])

	if !f.SetFocus(ws[1]) || !ws[1].focused {
		t.Fatal("SetFocus should move focus")
	}
	if f.SetFocus(ws[1]) {
		t.Fatal("refocusing the current widget is not a change")
	}

	f.Reset()
	if f.Count() != 0 || f.Current() != nil || ws[1].focused {
		t.Fatal("Reset should blur and empty the ring")
	}
	if f.FocusNext() {
		t.Fatal("empty scope cannot move focus")
	}
}
