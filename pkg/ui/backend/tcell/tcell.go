// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen

	inPaste     bool
	pasteBuffer strings.Builder
}

// New creates a new tcell backend on the process terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen creates a backend with an existing tcell screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnablePaste()
	return nil
}

// Fini cleans up the backend.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// SetCursorPos shows the cursor at (x, y).
func (b *Backend) SetCursorPos(x, y int) {
	b.screen.ShowCursor(x, y)
}

// PollEvent blocks until an event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}
		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if converted := convertEvent(ev); converted != nil {
			return converted
		}
	}
}

// PostEvent injects a resize into the queue. Other events are dropped.
func (b *Backend) PostEvent(ev terminal.Event) error {
	if e, ok := ev.(terminal.ResizeEvent); ok {
		return b.screen.PostEvent(tcell.NewEventResize(e.Width, e.Height))
	}
	return nil
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	style := tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg))

	if attrs&backend.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&backend.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if attrs&backend.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&backend.AttrDim != 0 {
		style = style.Dim(true)
	}
	if attrs&backend.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	return style
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return terminal.KeyEvent{
			Key:   convertKey(e.Key()),
			Rune:  e.Rune(),
			Alt:   e.Modifiers()&tcell.ModAlt != 0,
			Ctrl:  e.Modifiers()&tcell.ModCtrl != 0,
			Shift: e.Modifiers()&tcell.ModShift != 0,
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	default:
		return nil
	}
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBacktab,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlR:      terminal.KeyCtrlR,
	tcell.KeyCtrlS:      terminal.KeyCtrlS,
	tcell.KeyCtrlZ:      terminal.KeyCtrlZ,
}

func convertKey(k tcell.Key) terminal.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return terminal.KeyNone
}

var _ backend.Backend = (*Backend)(nil)
