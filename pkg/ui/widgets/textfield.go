package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
)

// TextField edits a string observable in place: every keystroke is a Set,
// so the bound value (and any dirty tracking on it) follows the text.
// External writes such as a reset show up on the next render.
type TextField struct {
	FocusableBase

	value       observable.Settable[string]
	cursor      int // rune index
	seen        string
	placeholder string
	width       int
}

// NewTextField creates a field editing value.
func NewTextField(value observable.Settable[string]) *TextField {
	text := value.Get()
	return &TextField{value: value, width: 24, seen: text, cursor: len([]rune(text))}
}

// SetPlaceholder sets the placeholder text shown when empty and unfocused.
func (t *TextField) SetPlaceholder(text string) {
	t.placeholder = text
}

// SetWidth sets the preferred width in columns.
func (t *TextField) SetWidth(w int) {
	t.width = w
}

// Cursor returns the cursor position as a rune index.
func (t *TextField) Cursor() int {
	return t.clampCursor()
}

// clampCursor moves the cursor to the end when the value was written
// elsewhere, such as by a load or a reset.
func (t *TextField) clampCursor() int {
	text := t.value.Get()
	n := len([]rune(text))
	if text != t.seen {
		t.seen = text
		t.cursor = n
	}
	t.cursor = min(max(t.cursor, 0), n)
	return t.cursor
}

func (t *TextField) set(text string) {
	t.value.Set(text)
	t.seen = t.value.Get()
}

// Focus moves the cursor to the end of the text.
func (t *TextField) Focus() {
	t.FocusableBase.Focus()
	t.cursor = len([]rune(t.value.Get()))
}

// Measure returns the preferred width, one row tall.
func (t *TextField) Measure(c runtime.Constraints) runtime.Size {
	return c.Constrain(runtime.Size{Width: t.width, Height: 1})
}

// Render draws the text, scrolled so the cursor stays visible.
func (t *TextField) Render(ctx runtime.RenderContext) {
	b := t.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	style := ctx.Theme.Field
	if t.focused {
		style = ctx.Theme.FieldFocus
	}
	ctx.Buffer.Fill(runtime.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: 1}, ' ', style)

	runes := []rune(t.value.Get())
	if len(runes) == 0 && !t.focused && t.placeholder != "" {
		ctx.Buffer.SetString(b.X, b.Y, truncate(t.placeholder, b.Width), ctx.Theme.TextMuted, b.X+b.Width)
		return
	}

	cursor := t.clampCursor()
	start := 0
	for runewidth.StringWidth(string(runes[start:cursor])) >= b.Width {
		start++
	}
	ctx.Buffer.SetString(b.X, b.Y, string(runes[start:]), style, b.X+b.Width)

	if t.focused {
		x := b.X + runewidth.StringWidth(string(runes[start:cursor]))
		ch := ' '
		if cursor < len(runes) {
			ch = runes[cursor]
		}
		ctx.Buffer.Set(x, b.Y, ch, style.Reverse(true))
	}
}

// HandleMessage edits the bound value.
func (t *TextField) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if !t.focused {
		return runtime.Unhandled()
	}

	switch m := msg.(type) {
	case runtime.PasteMsg:
		t.insert([]rune(m.Text))
		return runtime.Handled()
	case runtime.KeyMsg:
		return t.handleKey(m)
	}
	return runtime.Unhandled()
}

func (t *TextField) handleKey(key runtime.KeyMsg) runtime.HandleResult {
	runes := []rune(t.value.Get())
	cursor := t.clampCursor()

	switch key.Key {
	case terminal.KeyRune:
		t.insert([]rune{key.Rune})
	case terminal.KeyBackspace:
		if cursor > 0 {
			t.set(string(append(runes[:cursor-1:cursor-1], runes[cursor:]...)))
			t.cursor = cursor - 1
		}
	case terminal.KeyDelete:
		if cursor < len(runes) {
			t.set(string(append(runes[:cursor:cursor], runes[cursor+1:]...)))
		}
	case terminal.KeyLeft:
		t.cursor = max(cursor-1, 0)
	case terminal.KeyRight:
		t.cursor = min(cursor+1, len(runes))
	case terminal.KeyHome:
		t.cursor = 0
	case terminal.KeyEnd:
		t.cursor = len(runes)
	case terminal.KeyEnter:
		return runtime.WithCommand(runtime.FocusNext{})
	default:
		return runtime.Unhandled()
	}
	return runtime.Handled()
}

func (t *TextField) insert(text []rune) {
	filtered := text[:0:0]
	for _, r := range text {
		if r >= ' ' {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return
	}
	runes := []rune(t.value.Get())
	cursor := t.clampCursor()
	next := make([]rune, 0, len(runes)+len(filtered))
	next = append(next, runes[:cursor]...)
	next = append(next, filtered...)
	next = append(next, runes[cursor:]...)
	t.set(string(next))
	t.cursor = cursor + len(filtered)
}
