package widgets

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dirtyfx/pkg/dirty"
	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
)

func key(k terminal.Key) runtime.KeyMsg { return runtime.KeyMsg{Key: k} }

func typeText(s *runtime.Screen, text string) {
	for _, r := range text {
		s.HandleMessage(runtime.KeyMsg{Key: terminal.KeyRune, Rune: r})
	}
}

func rowText(s *runtime.Screen, y int) string {
	buf := s.Buffer()
	w, _ := buf.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r := buf.Get(x, y).Rune
		if r == 0 {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func screenText(s *runtime.Screen) string {
	_, h := s.Size()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = rowText(s, y)
	}
	return strings.Join(lines, "\n")
}

func newScreen(root runtime.Widget, w, h int) *runtime.Screen {
	s := runtime.NewScreen(w, h, nil)
	s.SetRoot(root)
	s.Render()
	return s
}

func TestTextField_EditsBoundValue(t *testing.T) {
	name := dirty.NewString("Ada")
	field := NewField("Name", name, NewTextField(name))
	s := newScreen(field, 40, 1)

	assert.True(t, strings.HasPrefix(rowText(s, 0), "○ Name"), rowText(s, 0))

	typeText(s, "!")
	assert.Equal(t, "Ada!", name.Get())
	assert.True(t, name.IsDirty())

	s.Render()
	assert.True(t, strings.HasPrefix(rowText(s, 0), "● Name"), rowText(s, 0))

	s.HandleMessage(key(terminal.KeyBackspace))
	assert.Equal(t, "Ada", name.Get())
	assert.False(t, name.IsDirty(), "editing back to the baseline is clean")
}

func TestTextField_CursorMovement(t *testing.T) {
	v := observable.NewValue("ac")
	tf := NewTextField(v)
	s := newScreen(tf, 20, 1)
	require.True(t, tf.IsFocused())
	assert.Equal(t, 2, tf.Cursor())

	s.HandleMessage(key(terminal.KeyLeft))
	typeText(s, "b")
	assert.Equal(t, "abc", v.Get())

	s.HandleMessage(key(terminal.KeyHome))
	s.HandleMessage(key(terminal.KeyDelete))
	assert.Equal(t, "bc", v.Get())

	s.HandleMessage(runtime.PasteMsg{Text: "x\ty"})
	assert.Equal(t, "xybc", v.Get(), "control characters are dropped from pastes")
}

func TestTextField_FollowsExternalReset(t *testing.T) {
	name := dirty.NewString("Ada")
	tf := NewTextField(name)
	s := newScreen(tf, 20, 1)

	typeText(s, "lovelace")
	name.Reset()
	assert.Equal(t, 3, tf.Cursor(), "cursor is clamped to the reset text")

	s.Render()
	assert.Equal(t, "Ada", rowText(s, 0))
}

func TestNumberField_TypingWritesThrough(t *testing.T) {
	score := dirty.NewDouble(3.2)
	nf := NewDoubleField(score, 0.5)
	s := newScreen(nf, 20, 1)

	s.HandleMessage(key(terminal.KeyBackspace))
	assert.Equal(t, 3.0, score.Get(), `"3." parses`)
	typeText(s, "2")
	assert.Equal(t, 3.2, score.Get())
	assert.False(t, score.IsDirty())

	s.HandleMessage(key(terminal.KeyBackspace))
	s.HandleMessage(key(terminal.KeyBackspace))
	s.HandleMessage(key(terminal.KeyBackspace))
	typeText(s, "-")
	assert.False(t, nf.Valid())
	assert.Equal(t, "-", nf.Text())
	assert.Equal(t, 3.0, score.Get(), "unparseable drafts are not written")

	typeText(s, "5.4")
	assert.Equal(t, -5.4, score.Get())
	assert.True(t, score.IsDirty())
}

func TestNumberField_StepAndIgnoredRunes(t *testing.T) {
	visits := dirty.NewInteger(3)
	nf := NewIntegerField(visits, 1)
	s := newScreen(nf, 20, 1)

	s.HandleMessage(key(terminal.KeyUp))
	s.HandleMessage(key(terminal.KeyUp))
	assert.Equal(t, int32(5), visits.Get())
	assert.True(t, visits.IsDirty())

	s.HandleMessage(key(terminal.KeyDown))
	s.HandleMessage(key(terminal.KeyDown))
	assert.False(t, visits.IsDirty())

	typeText(s, "x")
	assert.Equal(t, "3", nf.Text())
}

func TestNumberField_StepClampsAtLimits(t *testing.T) {
	visits := dirty.NewInteger(math.MaxInt32 - 1)
	s := newScreen(NewIntegerField(visits, 5), 20, 1)
	s.HandleMessage(key(terminal.KeyUp))
	assert.Equal(t, int32(math.MaxInt32), visits.Get())
	s.HandleMessage(key(terminal.KeyUp))
	assert.Equal(t, int32(math.MaxInt32), visits.Get())

	points := dirty.NewLong(math.MinInt64 + 3)
	s = newScreen(NewLongField(points, 10), 20, 1)
	s.HandleMessage(key(terminal.KeyDown))
	assert.Equal(t, int64(math.MinInt64), points.Get())

	score := dirty.NewDouble(math.MaxFloat64)
	s = newScreen(NewDoubleField(score, 0.5), 20, 1)
	s.HandleMessage(key(terminal.KeyUp))
	assert.False(t, math.IsInf(score.Get(), 0))
}

func TestNumberField_ResetDropsDraft(t *testing.T) {
	points := dirty.NewLong(10)
	nf := NewLongField(points, 5)
	s := newScreen(nf, 20, 1)

	typeText(s, "0")
	assert.Equal(t, int64(100), points.Get())
	points.Reset()
	assert.Equal(t, "10", nf.Text())
}

func TestNumberField_BlurDiscardsDraft(t *testing.T) {
	points := dirty.NewLong(7)
	nf := NewLongField(points, 1)
	other := NewToggle(dirty.NewBoolean(false))
	s := newScreen(runtime.VBox(runtime.Fixed(nf), runtime.Fixed(other)), 20, 2)

	s.HandleMessage(key(terminal.KeyBackspace))
	assert.Equal(t, "", nf.Text())
	s.HandleMessage(key(terminal.KeyTab))
	assert.Equal(t, "7", nf.Text())
	assert.False(t, points.IsDirty())
}

func TestToggle(t *testing.T) {
	active := dirty.NewBoolean(true)
	tg := NewToggle(active)
	s := newScreen(tg, 5, 1)
	assert.Equal(t, "[x]", rowText(s, 0))

	typeText(s, " ")
	assert.False(t, active.Get())
	assert.True(t, active.IsDirty())
	s.Render()
	assert.Equal(t, "[ ]", rowText(s, 0))
}

func TestForm_RenderAndCommands(t *testing.T) {
	name := dirty.NewString("Ada")
	score := dirty.NewDouble(3.2)
	form := dirty.NewComposite(name, score)
	message := observable.NewValue("loaded")

	f := NewForm("Customer",
		NewStatusBar(form, message),
		NewField("Name", name, NewTextField(name)),
		NewField("Score", score, NewDoubleField(score, 0.1)),
	)
	s := newScreen(f, 80, 8)

	out := screenText(s)
	assert.Contains(t, out, "Customer")
	assert.Contains(t, out, "○ Name")
	assert.Contains(t, out, "○ Score")
	assert.Contains(t, out, "○ saved")
	assert.Contains(t, out, "loaded")

	typeText(s, "!")
	s.Render()
	out = screenText(s)
	assert.Contains(t, out, "● Name")
	assert.Contains(t, out, "○ Score")
	assert.Contains(t, out, "● unsaved")

	assert.Equal(t, []runtime.Command{runtime.Save{}}, s.HandleMessage(key(terminal.KeyCtrlS)).Commands)
	assert.Equal(t, []runtime.Command{runtime.Revert{}}, s.HandleMessage(key(terminal.KeyCtrlR)).Commands)
	assert.Equal(t, []runtime.Command{runtime.Quit{}}, s.HandleMessage(key(terminal.KeyEscape)).Commands)
}

func TestForm_FocusRingFollowsFieldOrder(t *testing.T) {
	a := dirty.NewString("")
	b := dirty.NewBoolean(false)
	ta := NewTextField(a)
	tb := NewToggle(b)
	f := NewForm("", nil, NewField("A", a, ta), NewField("B", b, tb))
	s := newScreen(f, 40, 6)

	assert.Equal(t, 2, s.FocusScope().Count())
	assert.True(t, ta.IsFocused())

	s.HandleMessage(key(terminal.KeyEnter))
	assert.True(t, tb.IsFocused())
	s.HandleMessage(key(terminal.KeyUp))
	assert.True(t, ta.IsFocused())
}

func TestLabel_Bound(t *testing.T) {
	text := observable.NewValue("hello")
	l := NewBoundLabel(text)
	s := newScreen(l, 3, 1)
	assert.Equal(t, "he…", rowText(s, 0))

	text.Set("ok")
	s.Render()
	assert.Equal(t, "ok", rowText(s, 0))
}
